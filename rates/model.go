package rates

import (
	"math/big"

	"finco/swapservice/tokens"
)

// Flat protocol fee taken from the input leg before conversion, in basis
// points. 10 bps = 0.1%.
const FeeBps = 10

// NominalPriceImpactPercent is the fixed impact figure reported by the
// deterministic model. It is a placeholder, not a market measurement.
const NominalPriceImpactPercent = "0.30"

type pairRate struct {
	numerator   int64
	denominator int64
}

// Model is a deterministic stand-in rate estimator. It exists so quoting
// stays usable and testable without a network dependency, it is not a
// pricing oracle.
type Model struct {
	rates map[string]pairRate
}

// NewModel builds the static rate table. The native asset trades around 3500
// units of the reference stablecoins, wrapped native is par with native, and
// any pair not listed in either direction falls back to 1:1.
func NewModel() *Model {
	m := &Model{rates: make(map[string]pairRate)}

	m.set("ETH", "USDC", 3500, 1)
	m.set("ETH", "USDT", 3500, 1)
	m.set("ETH", "DAI", 3500, 1)
	m.set("WETH", "USDC", 3500, 1)
	m.set("WETH", "USDT", 3500, 1)
	m.set("WETH", "DAI", 3500, 1)
	m.set("ETH", "WETH", 1, 1)
	m.set("WBTC", "USDC", 65000, 1)
	m.set("WBTC", "ETH", 130, 7)
	m.set("UNI", "USDC", 7, 1)

	return m
}

// set records a rate and its inverse.
func (m *Model) set(from, to string, numerator, denominator int64) {
	m.rates[from+"/"+to] = pairRate{numerator, denominator}
	m.rates[to+"/"+from] = pairRate{denominator, numerator}
}

func (m *Model) rateFor(from, to string) pairRate {
	if rate, ok := m.rates[from+"/"+to]; ok {
		return rate
	}
	return pairRate{1, 1}
}

// Estimate converts amountIn (source base units) into destination base units
// after deducting the flat fee from the input. All arithmetic is integer,
// division truncates toward zero. The fee is returned in source base units.
func (m *Model) Estimate(from, to tokens.TokenDescriptor, amountIn *big.Int) (amountOut, fee *big.Int) {
	fee = new(big.Int).Mul(amountIn, big.NewInt(FeeBps))
	fee.Quo(fee, big.NewInt(10000))

	net := new(big.Int).Sub(amountIn, fee)

	rate := m.rateFor(from.Symbol, to.Symbol)

	// out = net * rate * 10^toDecimals / 10^fromDecimals, single truncation.
	numerator := new(big.Int).Mul(net, big.NewInt(rate.numerator))
	numerator.Mul(numerator, pow10(to.Decimals))

	denominator := new(big.Int).Mul(big.NewInt(rate.denominator), pow10(from.Decimals))

	amountOut = numerator.Quo(numerator, denominator)
	return amountOut, fee
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
