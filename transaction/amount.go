package transaction

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
	"github.com/sultan-labs/sultan-go/types"
)

const (
	// Decimals is the number of fractional digits of the display unit.
	Decimals = 9
	// AtomicPerDisplay is the number of atomic units in one display unit.
	AtomicPerDisplay = 1_000_000_000
)

// ToAtomic converts a display amount to atomic units by multiplying by 10^9
// in float64 and truncating toward zero. Amounts with more precision than a
// float64 carries are converted lossily; use ParseDisplayAmount for exact
// input.
func ToAtomic(display float64) (types.Amount, error) {
	if math.IsNaN(display) || math.IsInf(display, 0) || display < 0 {
		return types.Amount{}, fmt.Errorf("%w: display amount %v", sdkerrors.ErrInvalidAmount, display)
	}

	scaled := display * AtomicPerDisplay
	truncated, _ := new(big.Float).SetFloat64(scaled).Int(nil)

	x, overflow := uint256.FromBig(truncated)
	if overflow {
		return types.Amount{}, fmt.Errorf("%w: display amount %v out of range", sdkerrors.ErrInvalidAmount, display)
	}
	return types.AmountFromUint256(x)
}

// ToDisplay converts atomic units to the display unit. The result is a
// float64 and may round for large balances.
func ToDisplay(a types.Amount) float64 {
	f, _ := new(big.Float).SetInt(a.Uint256().ToBig()).Float64()
	return f / AtomicPerDisplay
}

// ParseDisplayAmount parses a decimal display amount such as "10", "0.5" or
// "1_000.000000001" exactly. At most Decimals fractional digits are allowed.
func ParseDisplayAmount(s string) (types.Amount, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	whole, frac, _ := strings.Cut(clean, ".")

	if whole == "" && frac == "" {
		return types.Amount{}, fmt.Errorf("%w: empty amount %q", sdkerrors.ErrInvalidAmount, s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return types.Amount{}, fmt.Errorf("%w: %q is not a decimal number", sdkerrors.ErrInvalidAmount, s)
	}
	if len(frac) > Decimals {
		return types.Amount{}, fmt.Errorf("%w: %q has more than %d decimal places", sdkerrors.ErrInvalidAmount, s, Decimals)
	}

	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", Decimals-len(frac)), "0")
	if digits == "" {
		digits = "0"
	}
	return types.ParseAmount(digits)
}

// FormatDisplayAmount renders a in display units without rounding, trimming
// trailing zeros: 10500000000 -> "10.5".
func FormatDisplayAmount(a types.Amount) string {
	s := a.String()
	if len(s) <= Decimals {
		s = strings.Repeat("0", Decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-Decimals], strings.TrimRight(s[len(s)-Decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
