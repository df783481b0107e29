package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
)

// AddressHRP is the human-readable part of every Sultan address. It is a
// protocol constant: changing it changes every address.
const AddressHRP = "sultan"

// AddressPayloadSize is the number of SHA-256 digest bytes kept in an address.
const AddressPayloadSize = 20

// DeriveAddress computes bech32(AddressHRP, SHA-256(pub)[:20]) using the
// original Bech32 checksum (not Bech32m).
func DeriveAddress(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key is %d bytes, want %d", sdkerrors.ErrInvalidKeyEncoding, len(pub), ed25519.PublicKeySize)
	}

	digest := sha256.Sum256(pub)
	data, err := bech32.ConvertBits(digest[:AddressPayloadSize], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: convert address bits: %v", sdkerrors.ErrEncoding, err)
	}

	addr, err := bech32.Encode(AddressHRP, data)
	if err != nil {
		return "", fmt.Errorf("%w: bech32 encode: %v", sdkerrors.ErrEncoding, err)
	}
	return addr, nil
}

// ValidateAddress checks that addr is a Bech32 string with the sultan prefix
// and a 20-byte payload.
func ValidateAddress(addr string) error {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", sdkerrors.ErrInvalidAddress, addr, err)
	}
	if hrp != AddressHRP {
		return fmt.Errorf("%w: %q: prefix %q, want %q", sdkerrors.ErrInvalidAddress, addr, hrp, AddressHRP)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", sdkerrors.ErrInvalidAddress, addr, err)
	}
	if len(payload) != AddressPayloadSize {
		return fmt.Errorf("%w: %q: payload is %d bytes, want %d", sdkerrors.ErrInvalidAddress, addr, len(payload), AddressPayloadSize)
	}
	return nil
}
