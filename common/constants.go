package common

import (
	"time"
)

// Retry wait time
const RetrySleep = 3 * time.Second

// Network modes: a network is either backed by a live RPC endpoint or is a
// local/test deployment where on-chain quoting is unavailable.
const (
	NetworkModeLive       = "live"
	NetworkModeSimulation = "simulation"
)

// Swap attempt states
const (
	SwapIdle             = "idle"
	SwapQuoteObtained    = "quoteObtained"
	SwapAllowanceChecked = "allowanceChecked"
	SwapApproving        = "approving"
	SwapApproved         = "approved"
	SwapSubmitted        = "submitted"
	SwapConfirmed        = "confirmed"
	SwapFailed           = "failed"
)

// Slippage tolerance bounds accepted from callers, in percent.
const (
	MinSlippagePercent = 0.1
	MaxSlippagePercent = 50.0
)

const (
	WorkingEnvironment      = "WORKING_ENVIRONMENT"
	GinMode                 = "GIN_MODE"
	MongoDbConnectionString = "MongoDbConnectionString"
	MongoDatabase           = "MONGODB_DATABASE"
	NonceCollectionName     = "NONCE_COLLECTION_NAME"
	RedisHost               = "REDIS_HOST"
	RedisPort               = "REDIS_PORT"
	SignerPrivateKey        = "SIGNER_PRIVATE_KEY"
)
