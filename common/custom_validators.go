package common

import (
	"os"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var tokenSymbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

func validateTokenSymbol(fl validator.FieldLevel) bool {
	return tokenSymbolPattern.MatchString(fl.Field().String())
}

func validateSlippageBound(fl validator.FieldLevel) bool {
	slippage := fl.Field().Float()
	return slippage >= MinSlippagePercent && slippage <= MaxSlippagePercent
}

func SetupCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("tokensymbol", validateTokenSymbol)
		if err != nil {
			ForceExit("Failed to init tokensymbol validator")
		}
		err = v.RegisterValidation("slippagebound", validateSlippageBound)
		if err != nil {
			ForceExit("Failed to init slippagebound validator")
		}
	}
}

func ForceExit(v interface{}) {
	log.Error(v)
	os.Exit(1)
}
