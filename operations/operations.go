package operations

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"
	"finco/swapservice/gateways"
	"finco/swapservice/quotes"
	"finco/swapservice/swap"
	"finco/swapservice/tokens"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/metachris/eth-go-bindings/erc20"
	log "github.com/sirupsen/logrus"
)

// DefaultSlippagePercent applies when the caller omits the tolerance.
const DefaultSlippagePercent = 0.5

// Operations holds the wired service dependencies behind the api handlers.
// In simulation mode Executor, Signer and EvmClient stay nil, quoting keeps
// working off the rate model and swap submission is refused.
type Operations struct {
	Config       common.Configurations
	Registry     *tokens.Registry
	QuoteService *quotes.Service
	Executor     *swap.Executor
	Signer       *swap.SignerContext
	GasOracle    *gateways.GasOracleClient
	Store        *gateways.RedisStore
	EvmClient    *ethclient.Client
}

type quoteResponse struct {
	common.QuoteResult
	AmountIn     string  `json:"amountIn"` // base units of the source token
	MinAmountOut string  `json:"minAmountOut"`
	Slippage     float64 `json:"slippageTolerancePercent"`
}

// GetQuote quotes fromSymbol -> toSymbol for a decimal amount and derives the
// slippage-bounded minimum output.
func (o *Operations) GetQuote(c *gin.Context) {
	var request common.QuoteRequest
	if err := c.ShouldBindUri(&request); err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.IncorrectInputs,
			fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.IncorrectInputs, err)), c.Writer)
		return
	}

	slippage := DefaultSlippagePercent
	if raw := c.Query("slippage"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < common.MinSlippagePercent || parsed > common.MaxSlippagePercent {
			common.WriteErrorResponse(http.StatusBadRequest, swaperrors.IncorrectInputs,
				fmt.Sprintf("slippage must be between %.1f and %.1f, got %s", common.MinSlippagePercent, common.MaxSlippagePercent, raw), c.Writer)
			return
		}
		slippage = parsed
	}
	request.SlippageTolerancePercent = slippage

	result, err := o.QuoteService.Quote(c.Request.Context(), request)
	if err != nil {
		if kind := swaperrors.KindOf(err); kind != swaperrors.Unknown {
			common.WriteErrorResponse(http.StatusBadRequest, string(kind), err.Error(), c.Writer)
			return
		}
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.QuoteError, err.Error(), c.Writer)
		return
	}

	quoted, ok := new(big.Int).SetString(result.QuotedAmountOut, 10)
	if !ok {
		common.WriteErrorResponse(http.StatusInternalServerError, swaperrors.QuoteError,
			fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.QuoteError, fmt.Errorf("malformed quoted amount %q", result.QuotedAmountOut))), c.Writer)
		return
	}

	from, err := o.Registry.Resolve(request.FromSymbol)
	if err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, string(swaperrors.KindOf(err)), err.Error(), c.Writer)
		return
	}
	amountIn, err := tokens.ToBaseUnits(request.AmountIn, from.Decimals)
	if err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.IncorrectInputs, err.Error(), c.Writer)
		return
	}

	response := quoteResponse{
		QuoteResult:  result,
		AmountIn:     amountIn.String(),
		MinAmountOut: quotes.MinOut(quoted, slippage).String(),
		Slippage:     slippage,
	}

	common.ValidateAndWriteResponse(response, nil, c.Writer)
}

// PostSwap executes a swap intent against the proxy. One attempt per call, a
// failure of any step requires the caller to start over from a fresh quote.
func (o *Operations) PostSwap(c *gin.Context) {
	var request common.SwapRequest
	if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.DecodeBodyError,
			fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.DecodeBodyError, err)), c.Writer)
		return
	}

	if o.Executor == nil || o.Signer == nil {
		common.WriteErrorResponse(http.StatusServiceUnavailable, swaperrors.CommitTxError,
			"swap execution is disabled in simulation mode", c.Writer)
		return
	}

	outcome, err := o.Executor.Execute(c.Request.Context(), request.SwapIntent, *o.Signer)
	if err != nil {
		kind := swaperrors.KindOf(err)
		status := http.StatusBadRequest
		if kind == swaperrors.Unknown {
			status = http.StatusInternalServerError
		}
		common.WriteErrorResponse(status, string(kind), err.Error(), c.Writer)
		return
	}

	common.ValidateAndWriteResponse(outcome, nil, c.Writer)
}

// GetTokens lists the supported token table.
func (o *Operations) GetTokens(c *gin.Context) {
	common.ValidateAndWriteResponse(o.Registry.List(), nil, c.Writer)
}

// GetBalances reads the native and token balances of an address.
func (o *Operations) GetBalances(c *gin.Context) {
	if o.EvmClient == nil {
		common.WriteErrorResponse(http.StatusServiceUnavailable, swaperrors.ClientError,
			"balance reads are disabled in simulation mode", c.Writer)
		return
	}

	address := c.Param("address")
	if !ethcommon.IsHexAddress(address) {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.AddressError,
			fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.AddressError, fmt.Errorf("invalid address %q", address))), c.Writer)
		return
	}
	holder := ethcommon.HexToAddress(address)

	balances := make(map[string]string)
	for _, token := range o.Registry.List() {
		if token.IsNative() {
			balance, err := o.EvmClient.BalanceAt(c.Request.Context(), holder, nil)
			if err != nil {
				common.WriteErrorResponse(http.StatusBadRequest, swaperrors.GetBalanceError,
					fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.GetBalanceError, err)), c.Writer)
				return
			}
			balances[token.Symbol] = balance.String()
			continue
		}

		caller, err := erc20.NewErc20Caller(ethcommon.HexToAddress(token.Address), o.EvmClient)
		if err != nil {
			common.WriteErrorResponse(http.StatusBadRequest, swaperrors.ClientError,
				fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.ClientError, err)), c.Writer)
			return
		}
		balance, err := caller.BalanceOf(&bind.CallOpts{Context: c.Request.Context()}, holder)
		if err != nil {
			common.WriteErrorResponse(http.StatusBadRequest, swaperrors.GetBalanceError,
				fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.GetBalanceError, err)), c.Writer)
			return
		}
		balances[token.Symbol] = balance.String()
	}

	common.ValidateAndWriteResponse(balances, nil, c.Writer)
}

// GetGasFees returns the latest gas oracle tiers, cached in redis.
func (o *Operations) GetGasFees(c *gin.Context) {
	if o.GasOracle == nil {
		common.WriteErrorResponse(http.StatusServiceUnavailable, swaperrors.GasOracleError,
			"gas oracle is not configured", c.Writer)
		return
	}

	fees, err := o.GasOracle.CachedFees()
	if err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.GasOracleError, err.Error(), c.Writer)
		return
	}
	common.ValidateAndWriteResponse(fees, nil, c.Writer)
}

// RefreshGasFees is the cron entrypoint that forces a fresh oracle read.
func (o *Operations) RefreshGasFees(c *gin.Context) {
	if o.GasOracle == nil {
		common.ValidateAndWriteResponse(common.SuccessDetails{Message: "gas oracle is not configured"}, nil, c.Writer)
		return
	}

	log.Info("Refreshing gas fees from oracle")
	fees, err := o.GasOracle.RefreshFees()
	if err != nil {
		common.WriteErrorResponse(http.StatusBadRequest, swaperrors.GasOracleError, err.Error(), c.Writer)
		return
	}
	common.ValidateAndWriteResponse(fees, nil, c.Writer)
}
