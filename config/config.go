package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Placeholders shipped in the sample configuration. Either one (or an empty
// value) means the integration is not configured and demo data is used.
const (
	OpenWeatherPlaceholder = "TU_API_KEY_DE_OPENWEATHER_AQUI"
	OpenAIPlaceholder      = "TU_API_KEY_DE_OPENAI_AQUI"
)

// MaxRetries caps RETRY_MAX; the backoff policy has no elapsed-time limit.
const MaxRetries = 10

type AppConfig struct {
	Port     string
	DBPath   string
	Memory   bool
	LogLevel string
	LogJSON  bool

	DemoMode    bool
	RequireAuth bool
	BcryptCost  int

	OpenWeatherKey string
	OpenWeatherURL string
	Lat            float64
	Lon            float64
	City           string
	WeatherRefresh time.Duration

	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string

	HTTPTimeout     time.Duration
	RetryMax        uint64
	BreakerFailures uint32
	BreakerOpenFor  time.Duration

	// CredentialStore "keyring" looks up missing API keys in the OS keyring.
	CredentialStore string
}

func (c AppConfig) WeatherConfigured() bool { return configured(c.OpenWeatherKey, OpenWeatherPlaceholder) }
func (c AppConfig) AIConfigured() bool      { return configured(c.OpenAIKey, OpenAIPlaceholder) }

func configured(v, placeholder string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != placeholder
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "micampo.db")
	v.SetDefault("memory", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("demo_mode", true)
	v.SetDefault("require_auth", false)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("openweather_api_key", OpenWeatherPlaceholder)
	v.SetDefault("openweather_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather_lat", -34.6037)
	v.SetDefault("weather_lon", -58.3816)
	v.SetDefault("weather_city", "Buenos Aires")
	v.SetDefault("weather_refresh", "30m")
	v.SetDefault("openai_api_key", OpenAIPlaceholder)
	v.SetDefault("openai_endpoint", "https://api.openai.com")
	v.SetDefault("openai_model", "gpt-3.5-turbo")
	v.SetDefault("http_timeout", "15s")
	v.SetDefault("retry_max", 2)
	v.SetDefault("breaker_failures", 5)
	v.SetDefault("breaker_open_for", "30s")
	v.SetDefault("credential_store", "env")
}

// Load reads .env (if present), then the optional YAML file at path, then
// the environment. Environment variables win over the file.
func Load(path string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
				return AppConfig{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	retries, failures := v.GetInt("retry_max"), v.GetInt("breaker_failures")
	if retries < 0 || retries > MaxRetries {
		return AppConfig{}, fmt.Errorf("RETRY_MAX %d outside 0..%d", retries, MaxRetries)
	}
	if failures < 1 {
		return AppConfig{}, fmt.Errorf("BREAKER_FAILURES %d must be at least 1", failures)
	}

	cfg := AppConfig{
		Port:     v.GetString("port"),
		DBPath:   v.GetString("db_path"),
		Memory:   v.GetBool("memory"),
		LogLevel: v.GetString("log_level"),
		LogJSON:  v.GetBool("log_json"),

		DemoMode:    v.GetBool("demo_mode"),
		RequireAuth: v.GetBool("require_auth"),
		BcryptCost:  v.GetInt("bcrypt_cost"),

		OpenWeatherKey: v.GetString("openweather_api_key"),
		OpenWeatherURL: v.GetString("openweather_url"),
		Lat:            v.GetFloat64("weather_lat"),
		Lon:            v.GetFloat64("weather_lon"),
		City:           v.GetString("weather_city"),
		WeatherRefresh: v.GetDuration("weather_refresh"),

		OpenAIKey:      v.GetString("openai_api_key"),
		OpenAIEndpoint: v.GetString("openai_endpoint"),
		OpenAIModel:    v.GetString("openai_model"),

		HTTPTimeout:     v.GetDuration("http_timeout"),
		RetryMax:        uint64(retries),
		BreakerFailures: uint32(failures),
		BreakerOpenFor:  v.GetDuration("breaker_open_for"),

		CredentialStore: strings.ToLower(v.GetString("credential_store")),
	}
	return cfg, cfg.validate()
}

func (c AppConfig) validate() error {
	switch {
	case c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180:
		return fmt.Errorf("weather coordinates out of range: %v,%v", c.Lat, c.Lon)
	case c.RetryMax > MaxRetries:
		return fmt.Errorf("RETRY_MAX %d above %d", c.RetryMax, MaxRetries)
	case c.BreakerFailures == 0:
		return errors.New("BREAKER_FAILURES must be at least 1")
	case c.BreakerOpenFor <= 0 || c.HTTPTimeout <= 0:
		return errors.New("BREAKER_OPEN_FOR and HTTP_TIMEOUT must be positive")
	case c.WeatherRefresh <= 0:
		return errors.New("WEATHER_REFRESH must be positive")
	case c.BcryptCost < 4 || c.BcryptCost > 31:
		return fmt.Errorf("BCRYPT_COST %d outside 4..31", c.BcryptCost)
	case c.CredentialStore != "env" && c.CredentialStore != "keyring":
		return fmt.Errorf("CREDENTIAL_STORE %q: want env or keyring", c.CredentialStore)
	}
	return nil
}

// ResolveSecrets fills unconfigured API keys from lookup when the keyring
// credential store is selected. Lookup misses are not errors.
func (c *AppConfig) ResolveSecrets(lookup func(key string) (string, error), weatherKey, aiKey string) {
	if c.CredentialStore != "keyring" || lookup == nil {
		return
	}
	if !c.WeatherConfigured() {
		if v, err := lookup(weatherKey); err == nil && v != "" {
			c.OpenWeatherKey = v
		}
	}
	if !c.AIConfigured() {
		if v, err := lookup(aiKey); err == nil && v != "" {
			c.OpenAIKey = v
		}
	}
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	if c.WeatherConfigured() {
		c.OpenWeatherKey = "***"
	}
	if c.AIConfigured() {
		c.OpenAIKey = "***"
	}
	return c
}
