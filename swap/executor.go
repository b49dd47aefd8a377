package swap

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"
	"finco/swapservice/gateways"
	"finco/swapservice/tokens"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/metachris/eth-go-bindings/erc20"
	log "github.com/sirupsen/logrus"
)

// ChainBackend is the node surface the executor needs. ethclient.Client
// satisfies it, tests substitute an in-memory chain.
type ChainBackend interface {
	bind.ContractCaller
	PendingNonceAt(ctx context.Context, account ethcommon.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}

// SignerContext holds the key authorized to sign this attempt.
type SignerContext struct {
	PrivateKey *ecdsa.PrivateKey
}

func (s SignerContext) Address() ethcommon.Address {
	return crypto.PubkeyToAddress(s.PrivateKey.PublicKey)
}

// Executor submits slippage-bounded swaps through the proxy contract. One
// Execute call is one attempt: steps run strictly in order, a failure at any
// step is terminal and the caller must restart from a fresh quote.
type Executor struct {
	backend      ChainBackend
	chainID      *big.Int
	proxyAddress ethcommon.Address
	registry     *tokens.Registry
	nonces       *gateways.NonceStore
	gasPrice     *big.Int // wei, nil means ask the node
}

func NewExecutor(backend ChainBackend, chainID *big.Int, proxyAddress ethcommon.Address, registry *tokens.Registry, nonces *gateways.NonceStore) *Executor {
	return &Executor{
		backend:      backend,
		chainID:      chainID,
		proxyAddress: proxyAddress,
		registry:     registry,
		nonces:       nonces,
	}
}

// SetGasPrice pins the gas price in wei, typically from the gas oracle fast
// tier. Without it the node's suggestion is used per transaction.
func (e *Executor) SetGasPrice(gasPrice *big.Int) {
	e.gasPrice = gasPrice
}

// Execute runs one swap attempt. Failures come back classified, carrying the
// underlying message.
func (e *Executor) Execute(ctx context.Context, intent common.SwapIntent, signer SignerContext) (common.SwapOutcome, error) {
	outcome := common.SwapOutcome{}
	state := common.SwapIdle

	fromAddress := signer.Address()
	if fromAddress != ethcommon.HexToAddress(intent.SignerAddress) {
		return outcome, swaperrors.WithKind(swaperrors.SignerMismatch,
			fmt.Errorf("%s: connected %s, intent %s", swaperrors.SignerMismatchError, fromAddress.Hex(), intent.SignerAddress))
	}

	if intent.FromSymbol == intent.ToSymbol {
		return outcome, swaperrors.Classify(swaperrors.BuildErrMsg(swaperrors.SameAssetError, fmt.Errorf("%s", intent.FromSymbol)))
	}

	from, err := e.registry.Resolve(intent.FromSymbol)
	if err != nil {
		return outcome, swaperrors.Classify(err)
	}
	to, err := e.registry.Resolve(intent.ToSymbol)
	if err != nil {
		return outcome, swaperrors.Classify(err)
	}

	amountIn, ok := new(big.Int).SetString(intent.AmountIn, 10)
	if !ok || amountIn.Sign() <= 0 {
		return outcome, swaperrors.Classify(swaperrors.BuildErrMsg(swaperrors.IncorrectInputs,
			fmt.Errorf("amountIn must be a positive integer, got %q", intent.AmountIn)))
	}
	minAmountOut, ok := new(big.Int).SetString(intent.MinAmountOut, 10)
	if !ok || minAmountOut.Sign() < 0 {
		return outcome, swaperrors.Classify(swaperrors.BuildErrMsg(swaperrors.IncorrectInputs,
			fmt.Errorf("minAmountOut must be a non-negative integer, got %q", intent.MinAmountOut)))
	}

	state = common.SwapQuoteObtained
	log.Info("Executing swap ", intent.FromSymbol, " -> ", intent.ToSymbol, " for ", fromAddress.Hex())

	// Allowance step applies whenever the source asset is a token.
	if !from.IsNative() {
		approvalHash, err := e.ensureAllowance(ctx, from, fromAddress, amountIn, signer)
		if err != nil {
			return outcome, swaperrors.Classify(err)
		}
		state = common.SwapAllowanceChecked
		if approvalHash != (ethcommon.Hash{}) {
			outcome.ApprovalTxHash = approvalHash.Hex()
			state = common.SwapApproved
		}
	}

	callData, value, err := e.buildSwapCall(from, to, amountIn, minAmountOut)
	if err != nil {
		return outcome, swaperrors.Classify(err)
	}

	swapTx, err := e.submitTx(ctx, fromAddress, e.proxyAddress, value, gateways.SwapGasLimit, callData, signer)
	if err != nil {
		return outcome, swaperrors.Classify(err)
	}
	state = common.SwapSubmitted
	outcome.TransactionHash = swapTx.Hash().Hex()
	log.Info("Swap submitted ", outcome.TransactionHash)

	receipt, err := e.waitMined(ctx, swapTx.Hash())
	if err != nil {
		return outcome, swaperrors.Classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return outcome, swaperrors.Classify(swaperrors.BuildErrMsg(swaperrors.ConfirmTxError,
			fmt.Errorf("swap transaction %s reverted", outcome.TransactionHash)))
	}

	state = common.SwapConfirmed
	if receipt.BlockNumber != nil {
		outcome.ConfirmedBlock = receipt.BlockNumber.Uint64()
	}
	log.Info("Swap ", outcome.TransactionHash, " reached state ", state)

	return outcome, nil
}

// ensureAllowance reads the current allowance and, only when short, submits
// an exact-amount approval and waits for it to confirm. Approving exactly
// amountIn bounds what the proxy can move even if it misbehaves.
func (e *Executor) ensureAllowance(ctx context.Context, token tokens.TokenDescriptor, owner ethcommon.Address, amountIn *big.Int, signer SignerContext) (ethcommon.Hash, error) {
	tokenAddress := ethcommon.HexToAddress(token.Address)

	caller, err := erc20.NewErc20Caller(tokenAddress, e.backend)
	if err != nil {
		return ethcommon.Hash{}, swaperrors.BuildAndLogErrorMsg(swaperrors.ClientError, err)
	}

	allowance, err := caller.Allowance(&bind.CallOpts{Context: ctx}, owner, e.proxyAddress)
	if err != nil {
		return ethcommon.Hash{}, swaperrors.BuildAndLogErrorMsg(swaperrors.AllowanceReadError, err)
	}

	if allowance.Cmp(amountIn) >= 0 {
		return ethcommon.Hash{}, nil
	}

	log.Info("Allowance ", allowance.String(), " below ", amountIn.String(), " for ", token.Symbol, ", approving")

	callData := erc20ApproveCallData(e.proxyAddress, amountIn)
	approveTx, err := e.submitTx(ctx, owner, tokenAddress, big.NewInt(0), gateways.ApproveGasLimit, callData, signer)
	if err != nil {
		return ethcommon.Hash{}, swaperrors.BuildErrMsg(swaperrors.ApprovalError, err)
	}

	// The swap must not race a pending approval, wait for the receipt.
	receipt, err := e.waitMined(ctx, approveTx.Hash())
	if err != nil {
		return ethcommon.Hash{}, swaperrors.BuildErrMsg(swaperrors.ApprovalError, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return ethcommon.Hash{}, swaperrors.BuildErrMsg(swaperrors.ApprovalError,
			fmt.Errorf("approve transaction %s reverted", approveTx.Hash().Hex()))
	}

	return approveTx.Hash(), nil
}

func (e *Executor) buildSwapCall(from, to tokens.TokenDescriptor, amountIn, minAmountOut *big.Int) ([]byte, *big.Int, error) {
	switch {
	case from.IsNative():
		callData, err := packNativeToToken(ethcommon.HexToAddress(to.Address), minAmountOut)
		if err != nil {
			return nil, nil, swaperrors.BuildErrMsg(swaperrors.TxBuildError, err)
		}
		return callData, amountIn, nil
	case to.IsNative():
		callData, err := packTokenToNative(ethcommon.HexToAddress(from.Address), amountIn, minAmountOut)
		if err != nil {
			return nil, nil, swaperrors.BuildErrMsg(swaperrors.TxBuildError, err)
		}
		return callData, big.NewInt(0), nil
	default:
		callData, err := packTokenToToken(ethcommon.HexToAddress(from.Address), ethcommon.HexToAddress(to.Address), amountIn, minAmountOut)
		if err != nil {
			return nil, nil, swaperrors.BuildErrMsg(swaperrors.TxBuildError, err)
		}
		return callData, big.NewInt(0), nil
	}
}

func (e *Executor) submitTx(ctx context.Context, fromAddress, toAddress ethcommon.Address, value *big.Int, gasLimit uint64, callData []byte, signer SignerContext) (*types.Transaction, error) {
	nonce, err := e.backend.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		return nil, swaperrors.BuildAndLogErrorMsg(swaperrors.GetPendingNocceError, err)
	}
	nonce = e.nonces.Reconcile(ctx, fromAddress.Hex(), nonce)

	gasPrice := e.gasPrice
	if gasPrice == nil {
		gasPrice, err = e.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, swaperrors.BuildAndLogErrorMsg(swaperrors.ClientError, err)
		}
	}

	fullTx := types.NewTransaction(nonce, toAddress, value, gasLimit, gasPrice, callData)

	signedTx, err := types.SignTx(fullTx, types.NewEIP155Signer(e.chainID), signer.PrivateKey)
	if err != nil {
		return nil, swaperrors.BuildAndLogErrorMsg(swaperrors.SignatureError, err)
	}

	if err := e.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, swaperrors.BuildAndLogErrorMsg(swaperrors.CommitTxError, err)
	}

	if err := e.nonces.Record(ctx, fromAddress.Hex(), nonce); err != nil {
		log.Error(swaperrors.BuildErrMsg(swaperrors.NonceUpdateError, err))
	}

	return signedTx, nil
}

// waitMined polls for the receipt. One confirmation is sufficient.
func (e *Executor) waitMined(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error) {
	for {
		receipt, err := e.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, swaperrors.BuildErrMsg(swaperrors.ConfirmTxError, ctx.Err())
		case <-time.After(common.RetrySleep):
		}
	}
}

// erc20ApproveCallData hand-packs approve(spender, amount).
func erc20ApproveCallData(spender ethcommon.Address, amount *big.Int) []byte {
	approveFnSignature := []byte("approve(address,uint256)")
	methodID := crypto.Keccak256(approveFnSignature)[:4]

	paddedAddress := ethcommon.LeftPadBytes(spender.Bytes(), 32)
	paddedAmount := ethcommon.LeftPadBytes(amount.Bytes(), 32)

	var data []byte
	data = append(data, methodID...)
	data = append(data, paddedAddress...)
	data = append(data, paddedAmount...)

	return data
}
