package operations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finco/swapservice/common"
	"finco/swapservice/quotes"
	"finco/swapservice/rates"
	"finco/swapservice/tokens"

	"github.com/gin-gonic/gin"
)

// newSimulationRouter wires the handlers the way main does in simulation
// mode: model quotes only, no chain, no redis, no executor.
func newSimulationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	common.SetupCustomValidators()

	registry := tokens.DefaultRegistry()
	ops := &Operations{
		Registry:     registry,
		QuoteService: quotes.NewService(registry, quotes.NewModelSource(rates.NewModel())),
	}

	router := gin.New()
	api := router.Group("/api")
	api.GET("/quote/:fromSymbol/:toSymbol/:amount", ops.GetQuote)
	api.POST("/swap", ops.PostSwap)
	api.GET("/tokens", ops.GetTokens)
	api.GET("/balances/:address", ops.GetBalances)
	return router
}

func doRequest(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestQuoteEndpointModelFallback(t *testing.T) {
	router := newSimulationRouter()

	recorder := doRequest(router, http.MethodGet, "/api/quote/ETH/USDC/1?slippage=1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatal("expected 200, got", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Status bool `json:"status"`
		Result struct {
			QuotedAmountOut   string  `json:"quotedAmountOut"`
			ProtocolFeeAmount string  `json:"protocolFeeAmount"`
			AmountIn          string  `json:"amountIn"`
			MinAmountOut      string  `json:"minAmountOut"`
			Slippage          float64 `json:"slippageTolerancePercent"`
			Source            string  `json:"source"`
		} `json:"result"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal("unmarshal response:", err)
	}
	if !response.Status {
		t.Error("expected status true")
	}
	if response.Result.Source != "model" {
		t.Error("expected model source, got", response.Result.Source)
	}
	// 1 ETH at 3500 less the 10 bps fee.
	if response.Result.QuotedAmountOut != "3496500000" {
		t.Error("unexpected quote:", response.Result.QuotedAmountOut)
	}
	if response.Result.AmountIn != "1000000000000000000" {
		t.Error("unexpected base unit amount:", response.Result.AmountIn)
	}
	// 1% off 3496500000, truncating.
	if response.Result.MinAmountOut != "3461535000" {
		t.Error("unexpected min out:", response.Result.MinAmountOut)
	}
}

func TestQuoteEndpointUnsupportedToken(t *testing.T) {
	router := newSimulationRouter()

	recorder := doRequest(router, http.MethodGet, "/api/quote/FOO/USDC/1", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatal("expected 400, got", recorder.Code)
	}

	var response common.ApiError
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal("unmarshal response:", err)
	}
	if response.Err.Type != "UnsupportedToken" {
		t.Error("expected UnsupportedToken type, got", response.Err.Type)
	}
}

func TestQuoteEndpointSameAsset(t *testing.T) {
	router := newSimulationRouter()

	recorder := doRequest(router, http.MethodGet, "/api/quote/USDC/USDC/5", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Error("expected 400 for same asset, got", recorder.Code)
	}
}

func TestQuoteEndpointSlippageBounds(t *testing.T) {
	router := newSimulationRouter()

	for _, slippage := range []string{"0.05", "51", "-1", "abc"} {
		recorder := doRequest(router, http.MethodGet, "/api/quote/ETH/USDC/1?slippage="+slippage, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Error("expected 400 for slippage", slippage, "got", recorder.Code)
		}
	}
}

func TestSwapEndpointDisabledInSimulation(t *testing.T) {
	router := newSimulationRouter()

	body, _ := json.Marshal(common.SwapRequest{
		SwapIntent: common.SwapIntent{
			FromSymbol:    "ETH",
			ToSymbol:      "USDC",
			AmountIn:      "1000000000000000000",
			MinAmountOut:  "3461535000",
			SignerAddress: "0x3000000000000000000000000000000000000003",
		},
		SlippageTolerancePercent: 1,
	})

	recorder := doRequest(router, http.MethodPost, "/api/swap", body)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Error("expected 503 without an executor, got", recorder.Code)
	}
}

func TestTokensEndpointListsRegistry(t *testing.T) {
	router := newSimulationRouter()

	recorder := doRequest(router, http.MethodGet, "/api/tokens", nil)
	if recorder.Code != http.StatusOK {
		t.Fatal("expected 200, got", recorder.Code)
	}

	var response struct {
		Status bool                     `json:"status"`
		Result []tokens.TokenDescriptor `json:"result"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal("unmarshal response:", err)
	}
	if len(response.Result) != 7 {
		t.Error("expected 7 tokens, got", len(response.Result))
	}

	found := false
	for _, token := range response.Result {
		if token.Symbol == "ETH" && token.Address == tokens.NativeTokenAddress {
			found = true
		}
	}
	if !found {
		t.Error("native entry missing from token listing")
	}
}

func TestBalancesEndpointDisabledInSimulation(t *testing.T) {
	router := newSimulationRouter()

	recorder := doRequest(router, http.MethodGet, "/api/balances/0x3000000000000000000000000000000000000003", nil)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Error("expected 503 without a chain client, got", recorder.Code)
	}
}
