package quotes

import (
	"math"
	"math/big"
)

// MinOut converts a quoted output amount and a slippage tolerance percent
// into the minimum acceptable output. The tolerance is mapped to basis
// points first so the monetary math is pure integer multiply then truncating
// divide. A zero tolerance returns the quoted amount exactly. Range checking
// of the tolerance is a caller precondition, not done here.
func MinOut(quotedAmountOut *big.Int, slippageTolerancePercent float64) *big.Int {
	bpsKept := 10000 - int64(math.Floor(slippageTolerancePercent*100))

	minOut := new(big.Int).Mul(quotedAmountOut, big.NewInt(bpsKept))
	return minOut.Quo(minOut, big.NewInt(10000))
}
