// Package config loads the simulator's YAML configuration file, with
// environment-variable overrides layered on top via viper. CLI flags are
// applied to the loaded Config afterwards by cmd/llmsim.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Server is the `server` YAML section.
type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeout accepts any duration string (e.g. "30s", "1m"); cast.ToDurationE
	// parses it leniently at the call site rather than requiring a strict
	// mapstructure decode hook.
	ReadTimeout string `mapstructure:"read_timeout"`
}

// Latency is the `latency` YAML section. Profile, when set, names one of
// the presets in internal/latency; the explicit fields override it
// piecemeal when also set.
type Latency struct {
	Profile       string `mapstructure:"profile"`
	TTFTMeanMS    uint64 `mapstructure:"ttft_mean_ms"`
	TTFTStddevMS  uint64 `mapstructure:"ttft_stddev_ms"`
	TBTMeanMS     uint64 `mapstructure:"tbt_mean_ms"`
	TBTStddevMS   uint64 `mapstructure:"tbt_stddev_ms"`
}

// Response is the `response` YAML section.
type Response struct {
	Generator    string `mapstructure:"generator"`
	TargetTokens int    `mapstructure:"target_tokens"`
}

// Errors is the `errors` YAML section.
type Errors struct {
	RateLimitRate      float64 `mapstructure:"rate_limit_rate"`
	ServerErrorRate    float64 `mapstructure:"server_error_rate"`
	TimeoutRate        float64 `mapstructure:"timeout_rate"`
	TimeoutAfterMS     uint64  `mapstructure:"timeout_after_ms"`
	InvalidRequestRate float64 `mapstructure:"invalid_request_rate"`
	AuthErrorRate      float64 `mapstructure:"auth_error_rate"`
}

// Models is the `models` YAML section.
type Models struct {
	Available []string `mapstructure:"available"`
}

// Config is the full, decoded configuration.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Latency  Latency  `mapstructure:"latency"`
	Response Response `mapstructure:"response"`
	Errors   Errors   `mapstructure:"errors"`
	Models   Models   `mapstructure:"models"`
}

// Defaults returns the built-in values used for any section or field left
// unset by both the config file and the environment.
func Defaults() Config {
	return Config{
		Server:   Server{Host: "0.0.0.0", Port: 8080, ReadTimeout: "30s"},
		Response: Response{Generator: "lorem", TargetTokens: 100},
		Errors:   Errors{TimeoutAfterMS: 30000},
		Models:   Models{Available: []string{"gpt-4", "gpt-4o", "gpt-5", "claude-3-opus-20240229"}},
	}
}

// Load reads configFile (if non-empty) and layers LLMSIM_-prefixed
// environment variables on top, falling back to Defaults for anything
// unset in either place.
func Load(configFile string) (Config, error) {
	v := viper.New()

	def := Defaults()
	// Every key gets a default, even zero-valued ones: AutomaticEnv only
	// surfaces LLMSIM_* values for keys viper already knows about.
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("latency.profile", "")
	v.SetDefault("latency.ttft_mean_ms", 0)
	v.SetDefault("latency.ttft_stddev_ms", 0)
	v.SetDefault("latency.tbt_mean_ms", 0)
	v.SetDefault("latency.tbt_stddev_ms", 0)
	v.SetDefault("response.generator", def.Response.Generator)
	v.SetDefault("response.target_tokens", def.Response.TargetTokens)
	v.SetDefault("errors.rate_limit_rate", 0.0)
	v.SetDefault("errors.server_error_rate", 0.0)
	v.SetDefault("errors.timeout_rate", 0.0)
	v.SetDefault("errors.timeout_after_ms", def.Errors.TimeoutAfterMS)
	v.SetDefault("errors.invalid_request_rate", 0.0)
	v.SetDefault("errors.auth_error_rate", 0.0)
	v.SetDefault("models.available", def.Models.Available)

	v.SetEnvPrefix("LLMSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
