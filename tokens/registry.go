package tokens

import (
	"fmt"

	swaperrors "finco/swapservice/errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// NativeTokenAddress is the reserved sentinel marking the chain's base
// currency. It never reaches a contract call, the wrapped token address is
// substituted wherever a real token contract is required.
const NativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

type TokenDescriptor struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

func (t TokenDescriptor) IsNative() bool {
	return t.Address == NativeTokenAddress
}

var (
	ETH  = TokenDescriptor{Symbol: "ETH", Name: "Ether", Address: NativeTokenAddress, Decimals: 18}
	WETH = TokenDescriptor{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18}
	USDC = TokenDescriptor{Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6}
	USDT = TokenDescriptor{Symbol: "USDT", Name: "USD Tether", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6}
	DAI  = TokenDescriptor{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18}
	UNI  = TokenDescriptor{Symbol: "UNI", Name: "UNISwap Token", Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", Decimals: 18}
	WBTC = TokenDescriptor{Symbol: "WBTC", Name: "Wrapped Bitcoin", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8}
)

// Registry is the fixed symbol table. Loaded once, read-only afterwards, so
// it is safe to share without synchronization.
type Registry struct {
	bySymbol map[string]TokenDescriptor
	native   TokenDescriptor
}

// NewRegistry builds a registry from a descriptor table. Exactly one entry
// must carry the native sentinel address and addresses must not repeat.
func NewRegistry(descriptors []TokenDescriptor) (*Registry, error) {
	r := &Registry{bySymbol: make(map[string]TokenDescriptor, len(descriptors))}

	seenAddresses := make(map[string]bool, len(descriptors))
	nativeCount := 0
	for _, token := range descriptors {
		if _, ok := r.bySymbol[token.Symbol]; ok {
			return nil, fmt.Errorf("duplicate token symbol %s", token.Symbol)
		}
		if token.IsNative() {
			nativeCount++
			r.native = token
		} else if !ethcommon.IsHexAddress(token.Address) {
			return nil, fmt.Errorf("invalid address for token %s: %s", token.Symbol, token.Address)
		}
		if seenAddresses[token.Address] {
			return nil, fmt.Errorf("duplicate token address %s", token.Address)
		}
		seenAddresses[token.Address] = true
		r.bySymbol[token.Symbol] = token
	}

	if nativeCount != 1 {
		return nil, fmt.Errorf("registry must contain exactly one native asset entry, got %d", nativeCount)
	}

	return r, nil
}

// DefaultRegistry returns the built-in mainnet table.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry([]TokenDescriptor{ETH, WETH, USDC, USDT, DAI, UNI, WBTC})
	if err != nil {
		// The built-in table is fixed, a failure here is a programming error.
		panic(err)
	}
	return registry
}

// Resolve looks a symbol up, failing with an UnsupportedToken kind so the
// rejection survives classification at any layer above.
func (r *Registry) Resolve(symbol string) (TokenDescriptor, error) {
	token, ok := r.bySymbol[symbol]
	if !ok {
		return TokenDescriptor{}, swaperrors.WithKind(swaperrors.UnsupportedToken,
			fmt.Errorf("%s: %s", swaperrors.UnsupportedTokenError, symbol))
	}
	return token, nil
}

// Native returns the single native asset entry.
func (r *Registry) Native() TokenDescriptor {
	return r.native
}

// List returns the descriptors in no particular order.
func (r *Registry) List() []TokenDescriptor {
	out := make([]TokenDescriptor, 0, len(r.bySymbol))
	for _, token := range r.bySymbol {
		out = append(out, token)
	}
	return out
}
