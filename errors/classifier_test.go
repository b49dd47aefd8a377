package errors

import (
	"fmt"
	"testing"
)

func TestClassifyProviderMessages(t *testing.T) {
	cases := []struct {
		message string
		want    ErrorKind
	}{
		{"MetaMask Tx Signature: User denied transaction signature", UserRejected},
		{"user rejected the request", UserRejected},
		{`RPC error: {"code":4001,"message":"User disapproved requested methods"}`, UserRejected},
		{"provider returned code: 4001", UserRejected},
		{"insufficient funds for gas * price + value", InsufficientGasFunds},
		{"execution reverted: Too little received", SlippageExceeded},
		{"execution reverted: UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT", SlippageExceeded},
		{"execution reverted: Transaction too old, deadline passed", DeadlineExpired},
		{"execution reverted: EXPIRED", DeadlineExpired},
		{"Error token symbol is not supported : FOO", UnsupportedToken},
		{"something entirely novel went wrong", Unknown},
	}

	for _, testCase := range cases {
		got := Classify(fmt.Errorf("%s", testCase.message)).Kind
		if got != testCase.want {
			t.Error("classifying", testCase.message, ": expected", testCase.want, "got", got)
		}
	}
}

func TestClassifyBareDigitsNotUserRejection(t *testing.T) {
	// Amounts and gas figures containing 4001 must not read as a
	// rejection code.
	cases := []struct {
		message string
		want    ErrorKind
	}{
		{"insufficient funds for transfer: have 4001 want 50000", InsufficientGasFunds},
		{"gas required exceeds allowance (14001)", Unknown},
		{"nonce too low: next nonce 4001", Unknown},
	}

	for _, testCase := range cases {
		got := Classify(fmt.Errorf("%s", testCase.message)).Kind
		if got != testCase.want {
			t.Error("classifying", testCase.message, ": expected", testCase.want, "got", got)
		}
	}
}

func TestClassifyKeepsTaggedKind(t *testing.T) {
	tagged := WithKind(SignerMismatch, fmt.Errorf("connected signer differs"))
	if got := Classify(tagged).Kind; got != SignerMismatch {
		t.Error("tagged errors must pass through unchanged, got", got)
	}
}

func TestClassifyUnknownKeepsMessage(t *testing.T) {
	raw := fmt.Errorf("a very specific provider failure")
	classified := Classify(raw)
	if classified.Kind != Unknown {
		t.Error("expected Unknown kind, got", classified.Kind)
	}
	if classified.Unwrap() != raw {
		t.Error("the underlying error must be preserved for diagnostics")
	}
}
