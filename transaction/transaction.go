package transaction

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	sdkerrors "github.com/sultan-labs/sultan-go/errors"
	"github.com/sultan-labs/sultan-go/types"
	"github.com/sultan-labs/sultan-go/wallet"
)

// TransferIntent carries the fields of one transfer while it is being built
// and signed.
type TransferIntent struct {
	From      string
	To        string
	Amount    types.Amount
	Nonce     uint64
	Timestamp uint64
	Memo      string
}

// Body is the "tx" object of a submitted transaction. Amount is a JSON
// number here, unlike in the signing payload.
type Body struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Amount    types.Amount `json:"amount"`
	Timestamp uint64       `json:"timestamp"`
	Nonce     uint64       `json:"nonce"`
	Memo      string       `json:"memo"`
}

// SignedEnvelope is the request body of POST /tx.
type SignedEnvelope struct {
	Tx        Body   `json:"tx"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

// Signer produces hex signatures; *wallet.Wallet implements it.
type Signer interface {
	Sign(message []byte) string
	PublicKeyHex() string
}

var _ Signer = (*wallet.Wallet)(nil)

// field order of the signing payload; must stay sorted by key.
const (
	keyAmount    = "amount"
	keyFrom      = "from"
	keyMemo      = "memo"
	keyNonce     = "nonce"
	keyTimestamp = "timestamp"
	keyTo        = "to"
)

// BuildSigningPayload returns the exact bytes a transfer signature covers:
//
//	{"amount":"<dec>","from":"..","memo":"..","nonce":N,"timestamp":T,"to":".."}
//
// Keys are in ascending order, amount is a decimal string and there is no
// whitespace. The object is written field by field instead of through a
// JSON encoder so that key order and escaping cannot drift.
func BuildSigningPayload(intent TransferIntent) []byte {
	buf := make([]byte, 0, 96+len(intent.From)+len(intent.To)+len(intent.Memo))

	buf = append(buf, '{')
	buf = appendKey(buf, keyAmount, true)
	buf = appendString(buf, intent.Amount.String())
	buf = appendKey(buf, keyFrom, false)
	buf = appendString(buf, intent.From)
	buf = appendKey(buf, keyMemo, false)
	buf = appendString(buf, intent.Memo)
	buf = appendKey(buf, keyNonce, false)
	buf = strconv.AppendUint(buf, intent.Nonce, 10)
	buf = appendKey(buf, keyTimestamp, false)
	buf = strconv.AppendUint(buf, intent.Timestamp, 10)
	buf = appendKey(buf, keyTo, false)
	buf = appendString(buf, intent.To)
	buf = append(buf, '}')

	return buf
}

// BuildEnvelope packages a signed intent for submission.
func BuildEnvelope(intent TransferIntent, signatureHex, publicKeyHex string) SignedEnvelope {
	return SignedEnvelope{
		Tx: Body{
			From:      intent.From,
			To:        intent.To,
			Amount:    intent.Amount,
			Timestamp: intent.Timestamp,
			Nonce:     intent.Nonce,
			Memo:      intent.Memo,
		},
		Signature: signatureHex,
		PublicKey: publicKeyHex,
	}
}

// Sign builds the signing payload for intent, signs it with s and returns
// the envelope. String fields must be valid UTF-8.
func Sign(intent TransferIntent, s Signer) (SignedEnvelope, error) {
	if err := checkUTF8(intent); err != nil {
		return SignedEnvelope{}, err
	}
	sig := s.Sign(BuildSigningPayload(intent))
	return BuildEnvelope(intent, sig, s.PublicKeyHex()), nil
}

// Intent recovers the signed fields from the envelope body.
func (e SignedEnvelope) Intent() TransferIntent {
	return TransferIntent{
		From:      e.Tx.From,
		To:        e.Tx.To,
		Amount:    e.Tx.Amount,
		Nonce:     e.Tx.Nonce,
		Timestamp: e.Tx.Timestamp,
		Memo:      e.Tx.Memo,
	}
}

// Verify recomputes the signing payload from the body and checks the
// signature against the embedded public key. It also checks that the key
// derives the sender address.
func (e SignedEnvelope) Verify() error {
	if err := wallet.Verify(e.PublicKey, BuildSigningPayload(e.Intent()), e.Signature); err != nil {
		return err
	}

	addr, err := publicKeyAddress(e.PublicKey)
	if err != nil {
		return err
	}
	if addr != e.Tx.From {
		return fmt.Errorf("%w: public key derives %s, tx is from %s", sdkerrors.ErrInvalidSignature, addr, e.Tx.From)
	}
	return nil
}

func checkUTF8(intent TransferIntent) error {
	fields := [...]struct{ name, value string }{
		{keyFrom, intent.From},
		{keyMemo, intent.Memo},
		{keyTo, intent.To},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s is not valid UTF-8", sdkerrors.ErrEncoding, f.name)
		}
	}
	return nil
}

func publicKeyAddress(publicKeyHex string) (string, error) {
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return "", fmt.Errorf("%w: public key: %v", sdkerrors.ErrInvalidKeyEncoding, err)
	}
	return wallet.DeriveAddress(pub)
}

func appendKey(buf []byte, key string, first bool) []byte {
	if !first {
		buf = append(buf, ',')
	}
	buf = appendString(buf, key)
	return append(buf, ':')
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a JSON string the way the node's serializer does:
// quote, backslash and control characters are escaped, everything else
// (including non-ASCII and '<', '>', '&') is copied through.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var esc string
		switch c {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			if c >= 0x20 {
				continue
			}
		}
		buf = append(buf, s[start:i]...)
		if esc != "" {
			buf = append(buf, esc...)
		} else {
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	buf = append(buf, s[start:]...)
	return append(buf, '"')
}
