package routes

import (
	"finco/swapservice/operations"

	"github.com/gin-gonic/gin"
)

func RouteHandler(routeEngine *gin.Engine, ops *operations.Operations) {

	// Helper route for cron job to refresh the gas fee snapshot
	routeEngine.GET("/", HandlerWrap(ops.RefreshGasFees))

	router := routeEngine.Group("/api")

	// quote api returns the current output estimate for a pair and amount,
	// with the slippage-bounded minimum output derived from the tolerance
	router.GET("/quote/:fromSymbol/:toSymbol/:amount", HandlerWrap(ops.GetQuote))

	// swap api executes a quoted intent against the proxy contract.
	// One attempt per call, failures require a fresh quote
	var guard SwapGuard
	if ops.Store != nil {
		guard = ops.Store
	}
	router.POST("/swap", HandleAsSwap(guard, ops.PostSwap))

	// tokens api lists the supported token table
	router.GET("/tokens", HandlerWrap(ops.GetTokens))

	// balances api reads native and token balances for an address
	router.GET("/balances/:address", HandlerWrap(ops.GetBalances))

	router.GET("/gasfees", HandlerWrap(ops.GetGasFees))
}
