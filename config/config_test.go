package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, -34.6037, cfg.Lat)
	assert.Equal(t, -58.3816, cfg.Lon)
	assert.Equal(t, "Buenos Aires", cfg.City)
	assert.Equal(t, 30*time.Minute, cfg.WeatherRefresh)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.False(t, cfg.WeatherConfigured())
	assert.False(t, cfg.AIConfigured())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "micampo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nweather_city: Rosario\nweather_refresh: 10m\n"), 0o600))
	t.Setenv("WEATHER_CITY", "Córdoba")
	t.Setenv("OPENAI_API_KEY", "sk-live")
	t.Setenv("DEMO_MODE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Córdoba", cfg.City)
	assert.Equal(t, 10*time.Minute, cfg.WeatherRefresh)
	assert.False(t, cfg.DemoMode)
	assert.True(t, cfg.AIConfigured())
	assert.Equal(t, "***", cfg.Redacted().OpenAIKey)
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("OPENWEATHER_API_KEY=TU_API_KEY_DE_OPENWEATHER_AQUI\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("OPENWEATHER_API_KEY")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.WeatherConfigured(), "placeholder is not a credential")
}

func TestValidate(t *testing.T) {
	cases := map[string]map[string]string{
		"latitude":          {"WEATHER_LAT": "123"},
		"negative retries":  {"RETRY_MAX": "-1"},
		"too many retries":  {"RETRY_MAX": "1000"},
		"negative failures": {"BREAKER_FAILURES": "-1"},
		"zero failures":     {"BREAKER_FAILURES": "0"},
		"zero open window":  {"BREAKER_OPEN_FOR": "0s"},
		"credential store":  {"CREDENTIAL_STORE": "vault"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestRetryBoundsAccepted(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RETRY_MAX", "0")
	t.Setenv("BREAKER_FAILURES", "1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.RetryMax)
	assert.Equal(t, uint32(1), cfg.BreakerFailures)
}

func TestResolveSecrets(t *testing.T) {
	lookup := func(k string) (string, error) {
		if k == "w" {
			return "owm-key", nil
		}
		return "", errors.New("not found")
	}

	cfg := AppConfig{CredentialStore: "env", OpenWeatherKey: OpenWeatherPlaceholder}
	cfg.ResolveSecrets(lookup, "w", "a")
	assert.False(t, cfg.WeatherConfigured())

	cfg.CredentialStore = "keyring"
	cfg.ResolveSecrets(lookup, "w", "a")
	assert.Equal(t, "owm-key", cfg.OpenWeatherKey)
	assert.False(t, cfg.AIConfigured())
}
