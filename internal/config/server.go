package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/spf13/viper"
)

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 20 * time.Second

	// CarrierBudget is how long a carrier waits for a callback reply before
	// dropping the session.
	CarrierBudget = 20 * time.Second
)

// ServerConfig holds the callback server and USSD menu settings.
type ServerConfig struct {
	Addr           string
	ServiceName    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LookupTimeout  time.Duration
	RequestTimeout time.Duration
}

// Validate checks that timeouts are usable.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: server address is required", common.ErrMissingConfig)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", common.ErrInvalidConfig)
	}
	if c.LookupTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: ussd timeouts must be positive", common.ErrInvalidConfig)
	}
	if c.WriteTimeout > CarrierBudget {
		return fmt.Errorf("%w: server write timeout (%s) exceeds the carrier budget (%s)",
			common.ErrInvalidConfig, c.WriteTimeout, CarrierBudget)
	}
	if c.LookupTimeout >= c.RequestTimeout {
		return fmt.Errorf("%w: ussd lookup timeout (%s) must be shorter than ussd request timeout (%s)",
			common.ErrInvalidConfig, c.LookupTimeout, c.RequestTimeout)
	}
	// A reply produced after the write deadline can never reach the caller.
	if c.RequestTimeout >= c.WriteTimeout {
		return fmt.Errorf("%w: ussd request timeout (%s) must be shorter than server write timeout (%s)",
			common.ErrInvalidConfig, c.RequestTimeout, c.WriteTimeout)
	}
	return nil
}

// LoadServerConfig loads server configuration from Viper, falling back to defaults.
func LoadServerConfig() (*ServerConfig, error) {
	config := ServerConfig{
		Addr:           DefaultAddr,
		ServiceName:    ussd.DefaultServiceName,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		LookupTimeout:  ussd.DefaultLookupTimeout,
		RequestTimeout: ussd.DefaultRequestTimeout,
	}

	if v := viper.GetString("server.addr"); v != "" {
		config.Addr = v
	}
	if viper.IsSet("server.read_timeout") {
		config.ReadTimeout = viper.GetDuration("server.read_timeout")
	}
	if viper.IsSet("server.write_timeout") {
		config.WriteTimeout = viper.GetDuration("server.write_timeout")
	}
	if viper.IsSet("ussd.lookup_timeout") {
		config.LookupTimeout = viper.GetDuration("ussd.lookup_timeout")
	}
	if viper.IsSet("ussd.request_timeout") {
		config.RequestTimeout = viper.GetDuration("ussd.request_timeout")
	}
	if v := viper.GetString("ussd.service_name"); v != "" {
		config.ServiceName = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
