// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and PERFSCORE_* env vars over those defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the console or json encoder.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, sends log lines to a rotated file instead of stdout.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// ModelPath points at the serialized model artifact.
	ModelPath string `koanf:"model_path"`

	// PredictionCacheSize bounds the prediction memo; <= 0 disables it.
	PredictionCacheSize int `koanf:"prediction_cache_size"`

	// RateLimitRPS and RateLimitBurst shape submissions; RPS <= 0 disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// DisplayLocale is the BCP 47 tag used to format scores.
	DisplayLocale string `koanf:"display_locale"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "console",
		LogMaxSizeMB:        50,
		LogMaxBackups:       3,
		LogMaxAgeDays:       28,
		Addr:                ":8501",
		ModelPath:           "employee_performance_model.json",
		PredictionCacheSize: 1024,
		RateLimitRPS:        20,
		RateLimitBurst:      40,
		DisplayLocale:       "en",
	}
}
