package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micampo/entities"
	"micampo/pkg/upstream"
)

const currentBody = `{
  "name": "Buenos Aires",
  "main": {"temp": 23.6, "feels_like": 25.2, "humidity": 70, "pressure": 1012},
  "wind": {"speed": 4.1},
  "weather": [{"description": "nubes dispersas", "icon": "03d"}],
  "sys": {"country": "AR", "sunrise": 1708333200, "sunset": 1708381200}
}`

const forecastBody = `{"list": [
  {"dt": 1708333200, "main": {"temp_min": 19.4, "temp_max": 27.6}, "weather": [{"description": "cielo claro", "icon": "01d"}], "pop": 0.1},
  {"dt": 1708344000, "main": {"temp_min": 21.0, "temp_max": 29.0}, "weather": [{"description": "lluvia", "icon": "10d"}], "pop": 0.9},
  {"dt": 1708419600, "main": {"temp_min": 18.2, "temp_max": 26.5}, "weather": [{"description": "nublado", "icon": "04d"}], "pop": 0.35}
]}`

func owmServer(t *testing.T, fail *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "es", q.Get("lang"))
		assert.Equal(t, "-34.6037", q.Get("lat"))
		if fail != nil && atomic.AddInt32(fail, -1) >= 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/weather":
			_, _ = w.Write([]byte(currentBody))
		case "/forecast":
			_, _ = w.Write([]byte(forecastBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

var ba = entities.Coords{Lat: -34.6037, Lon: -58.3816}

func TestOpenWeatherCurrent(t *testing.T) {
	srv := owmServer(t, nil)
	c := NewOpenWeather(srv.URL, "secret", time.Second, nil, time.UTC)

	cur, err := c.Current(context.Background(), ba)
	require.NoError(t, err)
	assert.Equal(t, entities.CurrentWeather{
		Temp: 24, FeelsLike: 25, Humidity: 70, Pressure: 1012, WindSpeed: 4.1,
		Description: "nubes dispersas", Icon: "03d", City: "Buenos Aires", Country: "AR",
		Sunrise: 1708333200, Sunset: 1708381200,
	}, cur)
}

func TestOpenWeatherForecast(t *testing.T) {
	srv := owmServer(t, nil)
	c := NewOpenWeather(srv.URL, "secret", time.Second, nil, time.UTC)

	days, err := c.Forecast(context.Background(), ba)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 19.0, days[0].TempMin)
	assert.Equal(t, 28.0, days[0].TempMax)
	assert.Equal(t, "cielo claro", days[0].Description)
	assert.Equal(t, 10.0, days[0].RainProb)
	assert.Equal(t, 35.0, days[1].RainProb)
}

func TestOpenWeatherRetriesThroughGuard(t *testing.T) {
	fails := int32(2)
	srv := owmServer(t, &fails)
	g := upstream.NewGuard(upstream.Settings{Name: "openweather", MaxRetries: 3, InitialBackoff: time.Millisecond}, nil, nil)
	c := NewOpenWeather(srv.URL, "secret", time.Second, g, time.UTC)

	cur, err := c.Current(context.Background(), ba)
	require.NoError(t, err)
	assert.Equal(t, "Buenos Aires", cur.City)
}

func TestOpenWeatherStatusError(t *testing.T) {
	fails := int32(100)
	srv := owmServer(t, &fails)
	c := NewOpenWeather(srv.URL, "secret", time.Second, nil, time.UTC)

	_, err := c.Forecast(context.Background(), ba)
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
}
