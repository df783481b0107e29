package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
)

// RFC 8032 section 7.1, test 1.
const (
	rfcSeedHex      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPublicKeyHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	rfcEmptySigHex  = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
	rfcAddress      = "sultan1y8lrrhap2j3xzcntlp2qgm7jyudhhm2tg22l6u"
)

func TestNewWallet(t *testing.T) {
	for i := 0; i < 20; i++ {
		w, err := New()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(w.Address(), "sultan1"), "address %s", w.Address())
		assert.Len(t, w.PublicKeyHex(), 64)
		assert.Len(t, w.PrivateKeyHex(), 64)
		assert.NoError(t, ValidateAddress(w.Address()))
	}
}

func TestImportKnownKey(t *testing.T) {
	w, err := FromPrivateKeyHex(rfcSeedHex)
	require.NoError(t, err)

	assert.Equal(t, rfcPublicKeyHex, w.PublicKeyHex())
	assert.Equal(t, rfcAddress, w.Address())
	assert.Equal(t, rfcEmptySigHex, w.Sign(nil))
	assert.Equal(t, rfcSeedHex, w.PrivateKeyHex())
}

func TestImportAcceptsUpperCase(t *testing.T) {
	w, err := FromPrivateKeyHex(strings.ToUpper(rfcSeedHex))
	require.NoError(t, err)
	assert.Equal(t, rfcAddress, w.Address())
}

func TestImportRoundTrip(t *testing.T) {
	original := MustNew()

	imported, err := FromPrivateKeyHex(original.PrivateKeyHex())
	require.NoError(t, err)
	again, err := FromPrivateKeyHex(imported.PrivateKeyHex())
	require.NoError(t, err)

	assert.Equal(t, original.Address(), imported.Address())
	assert.Equal(t, original.PublicKeyHex(), imported.PublicKeyHex())
	assert.Equal(t, imported.Address(), again.Address())
	assert.Equal(t, imported.PublicKeyHex(), again.PublicKeyHex())
}

func TestImportRejectsBadEncoding(t *testing.T) {
	cases := map[string]string{
		"not hex":   "zz" + rfcSeedHex[2:],
		"odd chars": rfcSeedHex[:63],
		"too short": rfcSeedHex[:62],
		"too long":  rfcSeedHex + "00",
		"full key":  rfcSeedHex + rfcPublicKeyHex,
		"empty":     "",
		"0x prefix": "0x" + rfcSeedHex,
		"0X prefix": "0X" + rfcSeedHex,
		"padded":    " " + rfcSeedHex + "\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			w, err := FromPrivateKeyHex(in)
			assert.Nil(t, w)
			assert.ErrorIs(t, err, sdkerrors.ErrInvalidKeyEncoding)
		})
	}
}

func TestSignDeterministicAndVerifiable(t *testing.T) {
	w := MustNew()
	msg := []byte("test message")

	sig := w.Sign(msg)
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, w.Sign(msg))
	assert.Equal(t, strings.ToLower(sig), sig)

	require.NoError(t, Verify(w.PublicKeyHex(), msg, sig))

	raw, err := hex.DecodeString(sig)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(w.PublicKey(), msg, raw))
}

func TestVerifyRejects(t *testing.T) {
	w := MustNew()
	other := MustNew()
	msg := []byte("payload")
	sig := w.Sign(msg)

	assert.ErrorIs(t, Verify(other.PublicKeyHex(), msg, sig), sdkerrors.ErrInvalidSignature)
	assert.ErrorIs(t, Verify(w.PublicKeyHex(), []byte("payload!"), sig), sdkerrors.ErrInvalidSignature)
	assert.ErrorIs(t, Verify(w.PublicKeyHex(), msg, sig[:126]), sdkerrors.ErrInvalidSignature)
	assert.ErrorIs(t, Verify("abcd", msg, sig), sdkerrors.ErrInvalidKeyEncoding)
}

func TestStringHidesPrivateKey(t *testing.T) {
	w, err := FromPrivateKeyHex(rfcSeedHex)
	require.NoError(t, err)
	assert.Equal(t, rfcAddress, w.String())
	assert.NotContains(t, w.String(), rfcSeedHex)
}
