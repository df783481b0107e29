// Package wallet holds a Sultan identity: an Ed25519 keypair and the
// bech32 address derived from its public key.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	sdkerrors "github.com/sultan-labs/sultan-go/errors"
)

// Wallet represents a user's keypair and its address. The private key never
// leaves the Wallet except through PrivateKeyHex.
type Wallet struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	address    string
}

// New generates a wallet from the system CSPRNG.
func New() (*Wallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return fromKeyPair(pub, priv)
}

// MustNew is New for examples and tests.
func MustNew() *Wallet {
	w, err := New()
	if err != nil {
		panic(err)
	}
	return w
}

// FromPrivateKeyHex imports the 32-byte Ed25519 seed encoded as plain hex.
// Prefixes and whitespace are malformed input.
func FromPrivateKeyHex(privateKeyHex string) (*Wallet, error) {
	seed, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdkerrors.ErrInvalidKeyEncoding, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", sdkerrors.ErrInvalidKeyEncoding, len(seed), ed25519.SeedSize)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return fromKeyPair(priv.Public().(ed25519.PublicKey), priv)
}

func fromKeyPair(pub ed25519.PublicKey, priv ed25519.PrivateKey) (*Wallet, error) {
	addr, err := DeriveAddress(pub)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		privateKey: priv,
		publicKey:  pub,
		address:    addr,
	}, nil
}

func (w *Wallet) Address() string {
	return w.address
}

func (w *Wallet) PublicKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), w.publicKey...)
}

// PublicKeyHex returns the 32 raw public key bytes as lowercase hex.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.publicKey)
}

// PrivateKeyHex exports the 32-byte seed as lowercase hex. Keep it secret.
func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.privateKey.Seed())
}

// Sign returns the Ed25519 signature of message as 128 lowercase hex chars.
// Ed25519 is deterministic: the same key and message give the same result.
func (w *Wallet) Sign(message []byte) string {
	return hex.EncodeToString(ed25519.Sign(w.privateKey, message))
}

// String prints the address only, so a Wallet is safe to pass to a logger.
func (w *Wallet) String() string {
	return w.address
}

// Verify checks a hex signature over message against a hex public key.
func Verify(publicKeyHex string, message []byte, signatureHex string) error {
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: public key %q", sdkerrors.ErrInvalidKeyEncoding, publicKeyHex)
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: malformed signature", sdkerrors.ErrInvalidSignature)
	}
	if !ed25519.Verify(pub, message, sig) {
		return fmt.Errorf("%w: verification failed", sdkerrors.ErrInvalidSignature)
	}
	return nil
}
