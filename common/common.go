package common

import (
	"math/big"
)

// QuoteRequest carries the caller supplied parameters for a quote.
// Amounts travel as decimal strings, conversion to base units happens
// against the source token decimals.
type QuoteRequest struct {
	FromSymbol               string  `json:"fromSymbol" uri:"fromSymbol" binding:"required,tokensymbol"`
	ToSymbol                 string  `json:"toSymbol" uri:"toSymbol" binding:"required,tokensymbol"`
	AmountIn                 string  `json:"amountIn" uri:"amount" binding:"required"`
	SlippageTolerancePercent float64 `json:"slippageTolerancePercent" form:"slippage"`
}

// QuoteResult is the normalized output of any quote source. Monetary fields
// are integer strings in base units, never floats.
type QuoteResult struct {
	QuotedAmountOut    string `json:"quotedAmountOut"`    // output token base units
	ProtocolFeeAmount  string `json:"protocolFeeAmount"`  // input token base units
	PriceImpactPercent string `json:"priceImpactPercent"` // decimal string
	GasEstimateUnits   string `json:"gasEstimateUnits"`
	Source             string `json:"source"` // which quote source produced the result
}

// SwapIntent is constructed after a successful quote and consumed exactly
// once, a failed attempt requires a fresh quote and a fresh intent.
type SwapIntent struct {
	FromSymbol    string `json:"fromSymbol" binding:"required,tokensymbol"`
	ToSymbol      string `json:"toSymbol" binding:"required,tokensymbol"`
	AmountIn      string `json:"amountIn" binding:"required"`      // base units
	MinAmountOut  string `json:"minAmountOut" binding:"required"`  // base units
	SignerAddress string `json:"signerAddress" binding:"required"` // hex address the connected signer must match
}

// SwapOutcome is returned on a confirmed swap. Failures are reported through
// classified errors, not through this structure.
type SwapOutcome struct {
	TransactionHash string `json:"transactionHash"`
	ConfirmedBlock  uint64 `json:"confirmedBlock,omitempty"`
	ApprovalTxHash  string `json:"approvalTxHash,omitempty"`
}

// SwapRequest is the inbound body of the swap endpoint: an intent plus the
// tolerance used to derive MinAmountOut, kept for diagnostics.
type SwapRequest struct {
	SwapIntent
	SlippageTolerancePercent float64 `json:"slippageTolerancePercent" binding:"required,slippagebound"`
}

type GasFee struct {
	SafeFee    *big.Int `json:"safe"`
	ProposeFee *big.Int `json:"propose"`
	FastFee    *big.Int `json:"fast"`
}

type ENVConfigs struct {
	WorkingEnvironment      string
	GinMode                 string
	MongoDbConnectionString string
	MongoDatabase           string
	NonceCollectionName     string
	RedisHost               string
	RedisPort               string
	SignerPrivateKey        string
}

type Exception struct {
	Code      int    `json:"code"`
	ErrorType string `json:"type"`
	Message   string `json:"message"`
}

type ApiError struct {
	Status bool         `json:"status"`
	Err    ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
}

type ApiSuccess struct {
	Status bool        `json:"status"`
	Result interface{} `json:"result"`
}

type SuccessDetails struct {
	Message string `json:"message"`
}
