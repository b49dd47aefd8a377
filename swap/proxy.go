package swap

import (
	"math/big"
	"strings"

	swaperrors "finco/swapservice/errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// SwapProxyABI covers the three entry points of the proxy swap contract.
const SwapProxyABI = `[
	{"name":"swapExactInputSingle","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
	{"name":"swapExactETHForTokens","type":"function","stateMutability":"payable","inputs":[{"name":"tokenOut","type":"address"},{"name":"amountOutMinimum","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
	{"name":"swapExactTokensForETH","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"}]}
]`

var proxyABI abi.ABI

func init() {
	var err error
	proxyABI, err = abi.JSON(strings.NewReader(SwapProxyABI))
	if err != nil {
		panic(swaperrors.BuildErrMsg(swaperrors.MarshallError, err))
	}
}

func packNativeToToken(tokenOut ethcommon.Address, minAmountOut *big.Int) ([]byte, error) {
	return proxyABI.Pack("swapExactETHForTokens", tokenOut, minAmountOut)
}

func packTokenToNative(tokenIn ethcommon.Address, amountIn, minAmountOut *big.Int) ([]byte, error) {
	return proxyABI.Pack("swapExactTokensForETH", tokenIn, amountIn, minAmountOut)
}

func packTokenToToken(tokenIn, tokenOut ethcommon.Address, amountIn, minAmountOut *big.Int) ([]byte, error) {
	return proxyABI.Pack("swapExactInputSingle", tokenIn, tokenOut, amountIn, minAmountOut)
}
