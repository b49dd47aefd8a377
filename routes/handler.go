package routes

import (
	"context"
	"fmt"
	"net/http"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// SwapGuard is the in-flight reservation surface of the redis store.
type SwapGuard interface {
	AcquireInFlight(ctx context.Context, signerAddress string) (bool, error)
	ReleaseInFlight(ctx context.Context, signerAddress string)
}

// Validate a request
func HandlerWrap(f func(c *gin.Context)) gin.HandlerFunc {

	return func(c *gin.Context) {
		f(c)
	}
}

// HandleAsSwap guards the swap endpoint with a per-signer in-flight
// reservation so concurrent submissions for the same address collapse to a
// single attempt. The body is bound here and re-bound inside the handler,
// ShouldBindBodyWith caches the raw bytes between the two.
func HandleAsSwap(guard SwapGuard, f func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request common.SwapRequest
		err := c.ShouldBindBodyWith(&request, binding.JSON)
		if err != nil {
			common.WriteErrorResponse(http.StatusBadRequest, swaperrors.DecodeBodyError,
				fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.DecodeBodyError, err)), c.Writer)
			return
		}

		if guard != nil {
			acquired, err := guard.AcquireInFlight(c.Request.Context(), request.SignerAddress)
			if err != nil {
				common.WriteErrorResponse(http.StatusInternalServerError, swaperrors.SwapInFlightError,
					fmt.Sprintf("%s", swaperrors.BuildAndLogErrorMsg(swaperrors.SwapInFlightError, err)), c.Writer)
				return
			}
			if !acquired {
				common.WriteErrorResponse(http.StatusConflict, swaperrors.SwapInFlightError,
					"a swap attempt is already pending for "+request.SignerAddress, c.Writer)
				return
			}
			// Release on a fresh context. The request context dies with a
			// disconnecting client and the reservation must be cleared even
			// then, otherwise the signer stays locked until the TTL runs out.
			defer guard.ReleaseInFlight(context.Background(), request.SignerAddress)
		}

		f(c)
	}
}
