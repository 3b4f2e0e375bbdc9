// Package config resolves the service's environment-backed settings once
// at startup into a single immutable value.
package config

import (
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable named in the external-interfaces section of
// the specification. It is resolved once, at process start, and passed
// down explicitly — nothing here is a package-level global.
type Config struct {
	Server ServerConfig
	OSRM   OSRMConfig
	Rules  RuleConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// OSRMConfig holds the distance-provider endpoint.
type OSRMConfig struct {
	BaseURL string        `mapstructure:"OSRM_BASE_URL"`
	Timeout time.Duration `mapstructure:"OSRM_TIMEOUT"`
}

// RuleConfig holds the routing-engine constants of spec.md §6.
type RuleConfig struct {
	MissPenalty          int           `mapstructure:"MISS_PENALTY"`
	MissPenaltyReducer   int           `mapstructure:"MISS_PENALTY_REDUCER"`
	WaitTimeAtWarehouse  int           `mapstructure:"WAIT_TIME_AT_WAREHOUSE"`
	LateDeliveryPenalty  int           `mapstructure:"LATE_DELIVERY_PENALTY_PER_SEC"`
	GlobalStartTime      int           `mapstructure:"GLOBAL_START_TIME"`
	GlobalEndTime        int           `mapstructure:"GLOBAL_END_TIME"`
	MaxTripTime          int           `mapstructure:"MAX_TRIP_TIME"`
	DefaultTimeLimit     time.Duration `mapstructure:"DEFAULT_TIME_LIMIT"`
}

// Addr returns the HTTP listen address in host:port form.
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// Load reads configuration from the environment, falling back to the
// defaults named in spec.md §6 for anything unset.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "6m")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("OSRM_BASE_URL", "https://router.project-osrm.org")
	viper.SetDefault("OSRM_TIMEOUT", "10s")

	viper.SetDefault("MISS_PENALTY", 2_000_000)
	viper.SetDefault("MISS_PENALTY_REDUCER", 20)
	viper.SetDefault("WAIT_TIME_AT_WAREHOUSE", 0)
	viper.SetDefault("LATE_DELIVERY_PENALTY_PER_SEC", 10)
	viper.SetDefault("GLOBAL_START_TIME", 9*3600)
	viper.SetDefault("GLOBAL_END_TIME", 21*3600)
	viper.SetDefault("MAX_TRIP_TIME", 5*3600+30*60)
	viper.SetDefault("DEFAULT_TIME_LIMIT", "5m")

	// A missing .env file is normal in containerized deployments; real env
	// vars set by the platform are picked up by AutomaticEnv regardless.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		OSRM: OSRMConfig{
			BaseURL: viper.GetString("OSRM_BASE_URL"),
			Timeout: viper.GetDuration("OSRM_TIMEOUT"),
		},
		Rules: RuleConfig{
			MissPenalty:         viper.GetInt("MISS_PENALTY"),
			MissPenaltyReducer:  viper.GetInt("MISS_PENALTY_REDUCER"),
			WaitTimeAtWarehouse: viper.GetInt("WAIT_TIME_AT_WAREHOUSE"),
			LateDeliveryPenalty: viper.GetInt("LATE_DELIVERY_PENALTY_PER_SEC"),
			GlobalStartTime:     viper.GetInt("GLOBAL_START_TIME"),
			GlobalEndTime:       viper.GetInt("GLOBAL_END_TIME"),
			MaxTripTime:         viper.GetInt("MAX_TRIP_TIME"),
			DefaultTimeLimit:    viper.GetDuration("DEFAULT_TIME_LIMIT"),
		},
	}

	return cfg, nil
}
