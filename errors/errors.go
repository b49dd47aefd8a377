package errors

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

func BuildErrMsg(errorType string, err error) error {
	return fmt.Errorf("%s : %v", errorType, err)
}

func BuildAndLogErrorMsg(errorType string, err error) error {
	er := BuildErrMsg(errorType, err)
	log.Error(er)
	return er
}

func BuildAndLogErrorMsgWithData(errorType string, err error, args ...interface{}) error {
	log.Error(fmt.Sprintf("Data: %v", args...))
	return BuildAndLogErrorMsg(errorType, err)
}

const (
	MarshallError   = "Error marshalling bytes into structure"
	UnmarshallError = "Error unmarshalling structure into byte"
	DecodeBodyError = "Error decoding http request body into structure"
	HexDecodeError  = "Error decoding hex encoded string"

	HttpRequestError = "Error executing http request"
	ClientError      = "Error creating client"

	UnsupportedTokenError = "Error token symbol is not supported"
	UnitConversionError   = "Error converting value"
	IncorrectInputs       = "Error incorrect inputs"
	SameAssetError        = "Error source and destination assets are the same"

	QuoteError         = "Error obtaining quote"
	NoQuoteSourceError = "Error no quote source produced a result"

	TxBuildError         = "Error building transaction"
	CommitTxError        = "Error commiting Tx to Blockchain"
	ConfirmTxError       = "Error waiting for Tx confirmation"
	ApprovalError        = "Error granting token allowance"
	AllowanceReadError   = "Error reading token allowance"
	GetBalanceError      = "Error querying balance from Blockchain"
	SignatureError       = "Error with signature"
	AddressError         = "Error parsing address"
	GetPendingNocceError = "Error getting pending nonce"
	SignerMismatchError  = "Error connected signer does not match intent signer"

	NonceUpdateError = "Error updating nonce"
	NonceCountError  = "Error retrieving nonce"

	DBConnectionError     = "Error connecting to DB"
	DBInitializationError = "Error initializing DB"

	SwapInFlightError = "Error swap already in flight for signer"
	GasOracleError    = "Error getting gas oracle prices"
)

func New(message string) error {
	return errors.New(message)
}
