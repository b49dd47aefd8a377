package tokens

import (
	"fmt"
	"math/big"
	"strings"

	swaperrors "finco/swapservice/errors"
)

// ToBaseUnits converts a decimal string amount into base units for the given
// precision. The conversion is pure string and big.Int work, no floats touch
// the monetary path. Fractional digits beyond the token precision truncate
// toward zero.
func ToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || amount == "." {
		return nil, swaperrors.BuildErrMsg(swaperrors.UnitConversionError, fmt.Errorf("empty amount"))
	}
	if strings.HasPrefix(amount, "-") {
		return nil, swaperrors.BuildErrMsg(swaperrors.UnitConversionError, fmt.Errorf("negative amount: %s", amount))
	}

	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if strings.ContainsAny(whole, ".") || strings.ContainsAny(frac, ".") {
		return nil, swaperrors.BuildErrMsg(swaperrors.UnitConversionError, fmt.Errorf("malformed amount: %s", amount))
	}

	if len(frac) > int(decimals) {
		frac = frac[:decimals]
	}
	frac = frac + strings.Repeat("0", int(decimals)-len(frac))

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, swaperrors.BuildErrMsg(swaperrors.UnitConversionError, fmt.Errorf("malformed amount: %s", amount))
	}

	return value, nil
}

// FromBaseUnits renders a base unit amount as a decimal string, trimming
// trailing fractional zeros.
func FromBaseUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}

	digits := amount.String()
	if decimals == 0 {
		return digits
	}

	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	split := len(digits) - int(decimals)
	whole, frac := digits[:split], digits[split:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// RescaleBaseUnits moves an integer amount between two token precisions,
// truncating toward zero when dropping digits.
func RescaleBaseUnits(amount *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	if fromDecimals == toDecimals {
		return new(big.Int).Set(amount)
	}
	if toDecimals > fromDecimals {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(toDecimals-fromDecimals)), nil)
		return new(big.Int).Mul(amount, scale)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(fromDecimals-toDecimals)), nil)
	return new(big.Int).Quo(amount, scale)
}
