package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finco/swapservice/common"

	"github.com/gin-gonic/gin"
)

type fakeGuard struct {
	acquireResult bool
	acquires      int
	releases      int
	releaseCtxErr error
}

func (g *fakeGuard) AcquireInFlight(ctx context.Context, signerAddress string) (bool, error) {
	g.acquires++
	return g.acquireResult, nil
}

func (g *fakeGuard) ReleaseInFlight(ctx context.Context, signerAddress string) {
	g.releases++
	g.releaseCtxErr = ctx.Err()
}

func newSwapRouter(guard SwapGuard, handler func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	common.SetupCustomValidators()

	router := gin.New()
	router.POST("/api/swap", HandleAsSwap(guard, handler))
	return router
}

func swapBody() []byte {
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
	return body
}

func TestHandleAsSwapAcquiresAndReleases(t *testing.T) {
	guard := &fakeGuard{acquireResult: true}
	handled := false
	router := newSwapRouter(guard, func(c *gin.Context) {
		handled = true
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/swap", bytes.NewReader(swapBody()))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if !handled {
		t.Error("wrapped handler must run once the reservation is held")
	}
	if guard.acquires != 1 || guard.releases != 1 {
		t.Error("expected one acquire and one release, got", guard.acquires, guard.releases)
	}
}

func TestHandleAsSwapConflictWhenPending(t *testing.T) {
	guard := &fakeGuard{acquireResult: false}
	router := newSwapRouter(guard, func(c *gin.Context) {
		t.Error("handler must not run while another attempt is pending")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/swap", bytes.NewReader(swapBody()))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Error("expected 409 while an attempt is pending, got", recorder.Code)
	}
	if guard.releases != 0 {
		t.Error("a reservation that was never acquired must not be released")
	}
}

func TestHandleAsSwapReleasesAfterClientGone(t *testing.T) {
	guard := &fakeGuard{acquireResult: true}

	// The handler cancels the request context mid-flight, standing in for a
	// client that disconnects while the swap is confirming.
	ctx, cancel := context.WithCancel(context.Background())
	router := newSwapRouter(guard, func(c *gin.Context) {
		cancel()
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/swap", bytes.NewReader(swapBody())).WithContext(ctx)
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if guard.releases != 1 {
		t.Fatal("reservation must be released after the attempt, got", guard.releases, "releases")
	}
	if guard.releaseCtxErr != nil {
		t.Error("release must not ride the dead request context:", guard.releaseCtxErr)
	}
}

func TestHandleAsSwapRejectsMalformedBody(t *testing.T) {
	guard := &fakeGuard{acquireResult: true}
	router := newSwapRouter(guard, func(c *gin.Context) {
		t.Error("handler must not run for a malformed body")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/swap", bytes.NewReader([]byte("{")))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Error("expected 400 for a malformed body, got", recorder.Code)
	}
	if guard.acquires != 0 {
		t.Error("no reservation may be taken for a malformed body")
	}
}
