package quotes

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"
	"finco/swapservice/tokens"

	"github.com/daoleno/uniswapv3-sdk/examples/contract"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Pool fee tiers, in hundredths of a basis point.
const (
	FeeTierLowest  = 100
	FeeTierLow     = 500
	FeeTierDefault = 3000
)

// Gas consumed by a single-hop swap through the proxy, used as the quote's
// gas estimate.
const SwapGasEstimateUnits = 200000

const oracleNominalPriceImpact = "0.10"

var stablecoins = map[string]bool{
	"USDC": true,
	"USDT": true,
	"DAI":  true,
}

// FeeTierFor selects the pool fee tier for a pair. Stable to stable pairs
// sit in the lowest tier, native against its wrapped form in the low tier,
// everything else takes the default middle tier.
func FeeTierFor(from, to tokens.TokenDescriptor) int64 {
	if stablecoins[from.Symbol] && stablecoins[to.Symbol] {
		return FeeTierLowest
	}
	if (from.IsNative() && to.Symbol == "WETH") || (to.IsNative() && from.Symbol == "WETH") {
		return FeeTierLow
	}
	return FeeTierDefault
}

// OracleSource quotes through the on-chain quoter contract. The quoter only
// understands token contracts, so the native sentinel is swapped for the
// wrapped native address before the call.
type OracleSource struct {
	client        *ethclient.Client
	quoterAddress ethcommon.Address
	wrappedNative ethcommon.Address
	timeout       time.Duration
}

func NewOracleSource(client *ethclient.Client, quoterAddress, wrappedNative ethcommon.Address, timeout time.Duration) *OracleSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OracleSource{
		client:        client,
		quoterAddress: quoterAddress,
		wrappedNative: wrappedNative,
		timeout:       timeout,
	}
}

func (o *OracleSource) Name() string {
	return "oracle"
}

func (o *OracleSource) contractAddress(token tokens.TokenDescriptor) ethcommon.Address {
	if token.IsNative() {
		return o.wrappedNative
	}
	return ethcommon.HexToAddress(token.Address)
}

func (o *OracleSource) AttemptQuote(ctx context.Context, from, to tokens.TokenDescriptor, amountIn *big.Int) (common.QuoteResult, error) {
	quoter, err := contract.NewUniswapv3Quoter(o.quoterAddress, o.client)
	if err != nil {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.ClientError, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	feeTier := big.NewInt(FeeTierFor(from, to))
	sqrtPriceLimitX96 := big.NewInt(0)

	var outQuote []interface{}
	quoterRaw := &contract.Uniswapv3QuoterRaw{Contract: quoter}
	err = quoterRaw.Call(&bind.CallOpts{Context: callCtx}, &outQuote, "quoteExactInputSingle",
		o.contractAddress(from), o.contractAddress(to), feeTier, amountIn, sqrtPriceLimitX96)
	if err != nil {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.QuoteError, err)
	}
	if len(outQuote) == 0 {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.QuoteError, fmt.Errorf("empty quoter response"))
	}

	amountOut, ok := outQuote[0].(*big.Int)
	if !ok {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.QuoteError, fmt.Errorf("unexpected quoter response type %T", outQuote[0]))
	}

	// The pool fee tier doubles as the protocol fee estimate, taken on the
	// input leg. Tiers are hundredths of a bip, so divide by 10^6.
	protocolFee := new(big.Int).Mul(amountIn, feeTier)
	protocolFee.Quo(protocolFee, big.NewInt(1000000))

	return common.QuoteResult{
		QuotedAmountOut:    amountOut.String(),
		ProtocolFeeAmount:  protocolFee.String(),
		PriceImpactPercent: oracleNominalPriceImpact,
		GasEstimateUnits:   fmt.Sprintf("%d", SwapGasEstimateUnits),
		Source:             o.Name(),
	}, nil
}
