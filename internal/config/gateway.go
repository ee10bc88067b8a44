package config

import (
	"os"

	"github.com/Veraticus/rentflow/internal/paystack"
	"github.com/spf13/viper"
)

// LoadGatewayConfig loads Paystack configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or RENTFLOW_ env vars)
// 2. Direct environment variables (PAYSTACK_*)
// 3. Default values
func LoadGatewayConfig() (*paystack.Config, error) {
	config := paystack.Config{
		BaseURL: paystack.DefaultBaseURL,
		Timeout: paystack.DefaultTimeout,
	}

	if v := viper.GetString("paystack.secret_key"); v != "" {
		config.SecretKey = v
	}
	if v := viper.GetString("paystack.base_url"); v != "" {
		config.BaseURL = v
	}
	if viper.IsSet("paystack.timeout") {
		config.Timeout = viper.GetDuration("paystack.timeout")
	}

	if config.SecretKey == "" {
		config.SecretKey = os.Getenv("PAYSTACK_SECRET_KEY")
	}
	if config.BaseURL == paystack.DefaultBaseURL {
		if v := os.Getenv("PAYSTACK_BASE_URL"); v != "" {
			config.BaseURL = v
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
