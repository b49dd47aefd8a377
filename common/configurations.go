package common

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Configurations exported
type Configurations struct {
	Server    ServerConfigurations
	Network   NetworkConfigurations
	Contracts ContractConfigurations
	GasOracle GasOracleConfigurations
	Quotes    QuoteConfigurations
}

// ServerConfigurations exported
type ServerConfigurations struct {
	Port string
}

// NetworkConfigurations describes the single active network. Mode is resolved
// here once and passed down, components never re-derive it from chain ids.
type NetworkConfigurations struct {
	Name    string
	Mode    string
	NodeUrl string
	ChainId int64
}

// ContractConfigurations exported
type ContractConfigurations struct {
	SwapProxy     string
	Quoter        string
	WrappedNative string
}

// GasOracleConfigurations exported
type GasOracleConfigurations struct {
	Url    string
	ApiKey string
}

// QuoteConfigurations exported
type QuoteConfigurations struct {
	TimeoutSeconds int
}

func LoadConfig(env *ENVConfigs) Configurations {
	var configName string
	if env.WorkingEnvironment == "development" {
		configName = "dev"
	} else if env.WorkingEnvironment == "production" {
		configName = "prod"
	} else {
		log.Panic("Envioronment Configuration Not Valid")
	}
	// Set the file name of the configurations file
	viper.SetConfigName("config_" + configName)

	// Set the path to look for the configurations file
	viper.AddConfigPath(".")

	// Enable VIPER to read Environment Variables
	viper.AutomaticEnv()

	viper.SetConfigType("yaml")

	var configuration Configurations

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file, %s", err)
	}

	err := viper.Unmarshal(&configuration)
	if err != nil {
		fmt.Printf("Unable to decode into struct, %v", err)
	}

	if configuration.Network.Mode != NetworkModeLive && configuration.Network.Mode != NetworkModeSimulation {
		log.Panic("Network mode must be live or simulation, got: ", configuration.Network.Mode)
	}

	return configuration
}

// Getting once all env variables to avoiding future fatals.
func GetENVVars() *ENVConfigs {
	getOrFatal := func(envVarName string) string {
		variable, ok := os.LookupEnv(envVarName)
		if !ok {
			log.Fatal("missing environment variable: ", envVarName)
		}
		return variable
	}

	env := ENVConfigs{}
	env.WorkingEnvironment = getOrFatal(WorkingEnvironment)
	env.GinMode = getOrFatal(GinMode)
	env.MongoDbConnectionString = getOrFatal(MongoDbConnectionString)
	env.MongoDatabase = getOrFatal(MongoDatabase)
	env.NonceCollectionName = getOrFatal(NonceCollectionName)
	env.RedisHost = getOrFatal(RedisHost)
	env.RedisPort = getOrFatal(RedisPort)
	env.SignerPrivateKey = getOrFatal(SignerPrivateKey)

	return &env
}
