package quotes

import (
	"context"
	"fmt"
	"math/big"

	"finco/swapservice/common"
	"finco/swapservice/rates"
	"finco/swapservice/tokens"
)

// ModelSource wraps the deterministic rate model as the terminal entry of
// the quote chain. It performs no I/O and never fails.
type ModelSource struct {
	model *rates.Model
}

func NewModelSource(model *rates.Model) *ModelSource {
	return &ModelSource{model: model}
}

func (m *ModelSource) Name() string {
	return "model"
}

func (m *ModelSource) AttemptQuote(ctx context.Context, from, to tokens.TokenDescriptor, amountIn *big.Int) (common.QuoteResult, error) {
	amountOut, fee := m.model.Estimate(from, to, amountIn)

	return common.QuoteResult{
		QuotedAmountOut:    amountOut.String(),
		ProtocolFeeAmount:  fee.String(),
		PriceImpactPercent: rates.NominalPriceImpactPercent,
		GasEstimateUnits:   fmt.Sprintf("%d", SwapGasEstimateUnits),
		Source:             m.Name(),
	}, nil
}
