package quotes

import (
	"context"
	"fmt"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"
	"finco/swapservice/tokens"

	log "github.com/sirupsen/logrus"
)

// Service runs an ordered chain of quote sources. Sources are tried in
// declaration order until one succeeds. Only an unsupported token surfaces
// to the caller, any other source failure is logged and absorbed by the
// next source in the chain.
type Service struct {
	registry *tokens.Registry
	sources  []Source
}

func NewService(registry *tokens.Registry, sources ...Source) *Service {
	return &Service{
		registry: registry,
		sources:  sources,
	}
}

// Quote resolves both legs, converts the amount to base units and walks the
// source chain. Results are produced fresh per call, quotes are momentary
// and never cached.
func (s *Service) Quote(ctx context.Context, request common.QuoteRequest) (common.QuoteResult, error) {
	if request.FromSymbol == request.ToSymbol {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.SameAssetError, fmt.Errorf("%s", request.FromSymbol))
	}

	from, err := s.registry.Resolve(request.FromSymbol)
	if err != nil {
		return common.QuoteResult{}, err
	}
	to, err := s.registry.Resolve(request.ToSymbol)
	if err != nil {
		return common.QuoteResult{}, err
	}

	amountIn, err := tokens.ToBaseUnits(request.AmountIn, from.Decimals)
	if err != nil {
		return common.QuoteResult{}, err
	}
	if amountIn.Sign() <= 0 {
		return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.IncorrectInputs, fmt.Errorf("amount must be positive: %s", request.AmountIn))
	}

	var lastErr error
	for _, source := range s.sources {
		result, err := source.AttemptQuote(ctx, from, to, amountIn)
		if err == nil {
			return result, nil
		}
		if swaperrors.KindOf(err) == swaperrors.UnsupportedToken {
			return common.QuoteResult{}, err
		}
		log.Warn("Quote source ", source.Name(), " failed, trying next: ", err)
		lastErr = err
	}

	return common.QuoteResult{}, swaperrors.BuildErrMsg(swaperrors.NoQuoteSourceError, lastErr)
}
