package gateways

import (
	"encoding/json"
	"math/big"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const gasFeesSnapshotID = "active_network"

// Gas limits by transaction kind.
const (
	BasicTxGasLimit = 21000
	ERC20GasLimit   = 2204*68 + 21000
	SwapGasLimit    = 200000
	ApproveGasLimit = 4 * 21000
)

type gasOracleAPIHeader struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Result  gasOracleAPI `json:"result"`
}

type gasOracleAPI struct {
	SafeGasPrice    string `json:"SafeGasPrice"`
	ProposeGasPrice string `json:"ProposeGasPrice"`
	FastGasPrice    string `json:"FastGasPrice"`
}

// GasOracleClient fetches etherscan style gas oracle tiers and keeps the
// latest snapshot in redis so quoting does not hammer the oracle.
type GasOracleClient struct {
	ApiUrl string
	ApiKey string
	rest   *resty.Client
	store  *RedisStore
}

func NewGasOracleClient(apiUrl, apiKey string, store *RedisStore) *GasOracleClient {
	return &GasOracleClient{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		rest:   resty.New(),
		store:  store,
	}
}

// GetGasOracle fetches the current safe/propose/fast tiers in gwei.
func (g *GasOracleClient) GetGasOracle() (common.GasFee, error) {
	resp, err := g.rest.R().Get(g.ApiUrl + g.ApiKey)
	if err != nil {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.HttpRequestError, err)
	}
	if resp.StatusCode() > 299 {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.HttpRequestError,
			swaperrors.New("gas oracle returned status "+resp.Status()))
	}

	gasOracle := gasOracleAPIHeader{}
	if err := json.Unmarshal(resp.Body(), &gasOracle); err != nil {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.UnmarshallError, err)
	}

	safe, ok := new(big.Int).SetString(gasOracle.Result.SafeGasPrice, 10)
	if !ok {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.GasOracleError,
			swaperrors.New("malformed safe gas price "+gasOracle.Result.SafeGasPrice))
	}
	propose, ok := new(big.Int).SetString(gasOracle.Result.ProposeGasPrice, 10)
	if !ok {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.GasOracleError,
			swaperrors.New("malformed propose gas price "+gasOracle.Result.ProposeGasPrice))
	}
	fast, ok := new(big.Int).SetString(gasOracle.Result.FastGasPrice, 10)
	if !ok {
		return common.GasFee{}, swaperrors.BuildAndLogErrorMsg(swaperrors.GasOracleError,
			swaperrors.New("malformed fast gas price "+gasOracle.Result.FastGasPrice))
	}

	return common.GasFee{SafeFee: safe, ProposeFee: propose, FastFee: fast}, nil
}

// RefreshFees fetches the oracle and stores the snapshot, returning the
// fresh tiers.
func (g *GasOracleClient) RefreshFees() (common.GasFee, error) {
	fees, err := g.GetGasOracle()
	if err != nil {
		return fees, err
	}

	if g.store != nil {
		if _, err := g.store.JsonDataStorage(gasFeesSnapshotID, fees); err != nil {
			log.Error("ERROR WRITING FEES: ", err)
		}
	}

	return fees, nil
}

// CachedFees reads the latest snapshot, falling back to a live fetch when
// the cache is cold or unavailable.
func (g *GasOracleClient) CachedFees() (common.GasFee, error) {
	if g.store != nil {
		raw, err := g.store.JsonDataGet(gasFeesSnapshotID)
		if err == nil {
			var fees []common.GasFee
			if err := json.Unmarshal(raw, &fees); err == nil && len(fees) > 0 {
				return fees[0], nil
			}
		}
	}

	return g.RefreshFees()
}

// Convert gwei to wei
func GweiToWei(gwei *big.Int) *big.Int {
	value := big.NewInt(1000000000)
	return new(big.Int).Mul(gwei, value)
}
