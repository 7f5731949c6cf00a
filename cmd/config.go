package cmd

import (
	"errors"
	"os"
	"path"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	t "github.com/tonkla/autoladder/types"
)

const envPrefix = "LADDER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange", t.ExcBinance)
	v.SetDefault("product", t.ProductSpot)
	v.SetDefault("strategy", t.StrategyLadder)
	v.SetDefault("sandbox", true)
	v.SetDefault("symbol", "BTCUSDT")
	v.SetDefault("ladder_size", 5)
	v.SetDefault("ladder_step", 1.0)
	v.SetDefault("order_size", 0.0001)
	v.SetDefault("interval_sec", 3)
	v.SetDefault("backoff", t.BackoffFixed)
	v.SetDefault("max_backoff_sec", 60)
	v.SetDefault("http_timeout_sec", 10)
	v.SetDefault("log_level", "info")
}

// loadParams reads defaults, then the config file, then LADDER_* variables.
// A dotenv file, when present, is loaded into the environment first.
func loadParams(configFile string, envFile string) (*t.BotParams, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, err
		}
		if ext := path.Ext(configFile); ext != ".yml" && ext != ".yaml" && ext != ".json" {
			return nil, errors.New("accept only YAML or JSON file")
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return &t.BotParams{
		ApiKey:    v.GetString("api_key"),
		SecretKey: v.GetString("secret_key"),
		Sandbox:   v.GetBool("sandbox"),
		BaseURL:   v.GetString("base_url"),

		Exchange: v.GetString("exchange"),
		Product:  v.GetString("product"),
		Strategy: v.GetString("strategy"),

		Symbol:    v.GetString("symbol"),
		Levels:    v.GetInt64("ladder_size"),
		Step:      v.GetFloat64("ladder_step"),
		OrderSize: v.GetFloat64("order_size"),

		IntervalSec:    v.GetInt64("interval_sec"),
		Backoff:        v.GetString("backoff"),
		MaxBackoffSec:  v.GetInt64("max_backoff_sec"),
		HTTPTimeoutSec: v.GetInt64("http_timeout_sec"),

		LogFile:  v.GetString("log_file"),
		LogLevel: v.GetString("log_level"),
	}, nil
}
