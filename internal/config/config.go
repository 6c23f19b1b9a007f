package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the client stack and the mock server need at
// startup. Values come from VAULTADMIN_* environment variables, optionally
// layered over a vaultadmin.yaml file in the working directory.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	TokenPath      string
	ExportDir      string
	MockListenAddr string
	RedisAddr      string
	TokenSecret    string
}

const envPrefix = "VAULTADMIN"

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8090/api")
	v.SetDefault("request_timeout", "50s")
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_delay", "1s")
	v.SetDefault("token_path", ".vaultadmin-session.json")
	v.SetDefault("export_dir", ".")
	v.SetDefault("mock_listen_addr", ":8090")
	v.SetDefault("redis_addr", "")
	v.SetDefault("token_secret", "vaultadmin-dev-secret")

	v.SetConfigName("vaultadmin")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		APIBaseURL:     strings.TrimRight(strings.TrimSpace(v.GetString("api_base_url")), "/"),
		RequestTimeout: v.GetDuration("request_timeout"),
		RetryAttempts:  v.GetInt("retry_attempts"),
		RetryDelay:     v.GetDuration("retry_delay"),
		TokenPath:      strings.TrimSpace(v.GetString("token_path")),
		ExportDir:      strings.TrimSpace(v.GetString("export_dir")),
		MockListenAddr: strings.TrimSpace(v.GetString("mock_listen_addr")),
		RedisAddr:      strings.TrimSpace(v.GetString("redis_addr")),
		TokenSecret:    v.GetString("token_secret"),
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 50 * time.Second
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return cfg, nil
}
