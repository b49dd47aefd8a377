package main

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"
	"finco/swapservice/gateways"
	"finco/swapservice/operations"
	"finco/swapservice/quotes"
	"finco/swapservice/rates"
	"finco/swapservice/routes"
	"finco/swapservice/swap"
	"finco/swapservice/tokens"

	log "github.com/sirupsen/logrus"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/gin-gonic/gin"
)

var ginLambda *ginadapter.GinLambda

// setup complete app routers
func setupRouter(ops *operations.Operations) *gin.Engine {

	router := gin.Default()

	common.SetupCustomValidators()

	routes.RouteHandler(router, ops)

	router.Use(common.CORSMiddleware())

	return router
}

// buildOperations wires the dependency graph once at startup. The network
// mode decides how much of the chain stack comes up: simulation keeps the
// model quoter only, live adds the node client, the on-chain quoter and the
// swap executor.
func buildOperations(env *common.ENVConfigs, config common.Configurations) *operations.Operations {
	registry := tokens.DefaultRegistry()
	store := gateways.NewRedisStore(env.RedisHost, env.RedisPort)
	gasOracle := gateways.NewGasOracleClient(config.GasOracle.Url, config.GasOracle.ApiKey, store)

	ops := &operations.Operations{
		Config:    config,
		Registry:  registry,
		GasOracle: gasOracle,
		Store:     store,
	}

	if config.Network.Mode == common.NetworkModeSimulation {
		log.Info("Network mode simulation, quoting off the rate model only")
		ops.QuoteService = quotes.NewService(registry, quotes.NewModelSource(rates.NewModel()))
		return ops
	}

	evm, err := gateways.NewEvmGateways(config.Network.NodeUrl)
	if err != nil {
		common.ForceExit(fmt.Sprint("cannot reach node at ", config.Network.NodeUrl, ": ", err))
	}
	ops.EvmClient = evm.Client

	oracleSource := quotes.NewOracleSource(evm.Client,
		ethcommon.HexToAddress(config.Contracts.Quoter),
		ethcommon.HexToAddress(config.Contracts.WrappedNative),
		time.Duration(config.Quotes.TimeoutSeconds)*time.Second)
	ops.QuoteService = quotes.NewService(registry, oracleSource, quotes.NewModelSource(rates.NewModel()))

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(env.SignerPrivateKey, "0x"))
	if err != nil {
		common.ForceExit(swaperrors.BuildErrMsg(swaperrors.SignatureError, err))
	}
	signer := swap.SignerContext{PrivateKey: privateKey}

	// Nonce bookkeeping is best effort, a missing mongo just means the
	// chain-reported pending nonce is trusted as is.
	var nonceStore *gateways.NonceStore
	db, err := gateways.ConnectDB(env)
	if err != nil {
		log.Error("Nonce store unavailable, continuing without: ", err)
	} else {
		nonceStore = gateways.NewNonceStore(db.Nonces)
	}

	executor := swap.NewExecutor(evm.Client,
		big.NewInt(config.Network.ChainId),
		ethcommon.HexToAddress(config.Contracts.SwapProxy),
		registry, nonceStore)

	if fees, err := gasOracle.CachedFees(); err == nil {
		executor.SetGasPrice(gateways.GweiToWei(fees.FastFee))
	} else {
		log.Warn("Gas oracle unavailable at startup, using node suggested gas price: ", err)
	}

	ops.Executor = executor
	ops.Signer = &signer

	log.Info("Network mode live on ", config.Network.Name, ", signer ", signer.Address().Hex())
	return ops
}

func main() {

	env := common.GetENVVars()
	config := common.LoadConfig(env)

	ops := buildOperations(env, config)

	if env.GinMode == "release" {
		fmt.Println("running aws lambda in aws")
		g := setupRouter(ops)
		ginLambda = ginadapter.New(g)
		lambda.Start(AWSHandler)
	} else {
		listenAddress := ":" + config.Server.Port
		log.Info(fmt.Sprintf("** Service Started on Port %s **", listenAddress))
		log.Fatal(http.ListenAndServe(listenAddress, setupRouter(ops)))
	}
}

func AWSHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, request)
}
