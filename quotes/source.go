package quotes

import (
	"context"
	"math/big"

	"finco/swapservice/common"
	"finco/swapservice/tokens"
)

// Source is one strategy in the quote chain. Implementations receive already
// resolved descriptors and the input amount in source base units, and either
// produce a normalized result or fail so the next source gets a try.
type Source interface {
	Name() string
	AttemptQuote(ctx context.Context, from, to tokens.TokenDescriptor, amountIn *big.Int) (common.QuoteResult, error)
}
