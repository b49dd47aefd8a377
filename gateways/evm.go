package gateways

import (
	swaperrors "finco/swapservice/errors"

	"github.com/ethereum/go-ethereum/ethclient"
)

// EvmGateways bundles the RPC client for the active network.
type EvmGateways struct {
	NodeURL string
	Client  *ethclient.Client
}

func NewEvmGateways(nodeUrl string) (EvmGateways, error) {
	eg := EvmGateways{
		NodeURL: nodeUrl,
	}
	client, err := ethclient.Dial(eg.NodeURL)
	if err != nil {
		return eg, swaperrors.BuildAndLogErrorMsg(swaperrors.ClientError, err)
	}
	eg.Client = client
	return eg, nil
}
