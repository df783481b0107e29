package types

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
)

// AmountBits is the width of the network's balance and amount fields (u128).
const AmountBits = 128

// MaxAmount is the largest representable amount, 2^128 - 1.
var MaxAmount = func() Amount {
	var a Amount
	a.v.Lsh(uint256.NewInt(1), AmountBits)
	a.v.SubUint64(&a.v, 1)
	return a
}()

// Amount is a token quantity in atomic units. The zero value is 0.
//
// On the wire an Amount is a bare JSON number; decoding also accepts a
// quoted decimal string.
type Amount struct {
	v uint256.Int
}

func NewAmount(atomic uint64) Amount {
	var a Amount
	a.v.SetUint64(atomic)
	return a
}

// AmountFromUint256 copies x into an Amount, rejecting values wider than
// 128 bits.
func AmountFromUint256(x *uint256.Int) (Amount, error) {
	var a Amount
	if x == nil {
		return a, nil
	}
	if x.BitLen() > AmountBits {
		return a, fmt.Errorf("%w: %s exceeds %d bits", sdkerrors.ErrInvalidAmount, x.Dec(), AmountBits)
	}
	a.v.Set(x)
	return a, nil
}

// ParseAmount parses a base-10 atomic amount.
func ParseAmount(s string) (Amount, error) {
	x, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", sdkerrors.ErrInvalidAmount, s, err)
	}
	return AmountFromUint256(x)
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount in base 10.
func (a Amount) String() string {
	return a.v.Dec()
}

// Uint256 returns a copy of the underlying integer.
func (a Amount) Uint256() *uint256.Int {
	return a.v.Clone()
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
