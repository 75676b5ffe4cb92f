// pkg/weather/openweather_client.go

package weather

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"micampo/entities"
	"micampo/pkg/upstream"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Pop     float64        `json:"pop"`
	} `json:"list"`
}

type OpenWeather struct {
	baseURL string
	key     string
	hc      *http.Client
	guard   *upstream.Guard
	loc     *time.Location
}

// NewOpenWeather talks to the 2.5 current and forecast endpoints. Days are
// split in loc (nil means local time).
func NewOpenWeather(baseURL, key string, timeout time.Duration, guard *upstream.Guard, loc *time.Location) *OpenWeather {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenWeather{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		hc:      &http.Client{Timeout: timeout},
		guard:   guard,
		loc:     loc,
	}
}

func (c *OpenWeather) endpoint(path string, at entities.Coords) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("appid", c.key)
	q.Set("units", "metric")
	q.Set("lang", "es")
	return c.baseURL + path + "?" + q.Encode()
}

func (c *OpenWeather) get(ctx context.Context, u string, out any) error {
	call := func(ctx context.Context) error {
		return upstream.DoJSON(ctx, c.hc, http.MethodGet, u, nil, nil, out)
	}
	if c.guard == nil {
		return call(ctx)
	}
	return c.guard.Do(ctx, call)
}

func (c *OpenWeather) Current(ctx context.Context, at entities.Coords) (entities.CurrentWeather, error) {
	var raw owmCurrent
	if err := c.get(ctx, c.endpoint("/weather", at), &raw); err != nil {
		return entities.CurrentWeather{}, fmt.Errorf("current weather: %w", err)
	}
	cond := first(raw.Weather)
	return entities.CurrentWeather{
		Temp:        math.Round(raw.Main.Temp),
		FeelsLike:   math.Round(raw.Main.FeelsLike),
		Humidity:    raw.Main.Humidity,
		Pressure:    raw.Main.Pressure,
		WindSpeed:   raw.Wind.Speed,
		Description: cond.Description,
		Icon:        cond.Icon,
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Sunrise:     raw.Sys.Sunrise,
		Sunset:      raw.Sys.Sunset,
	}, nil
}

func (c *OpenWeather) Forecast(ctx context.Context, at entities.Coords) ([]entities.ForecastDay, error) {
	var raw owmForecast
	if err := c.get(ctx, c.endpoint("/forecast", at), &raw); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	slots := make([]Slot, 0, len(raw.List))
	for _, e := range raw.List {
		cond := first(e.Weather)
		slots = append(slots, Slot{
			At:          time.Unix(e.Dt, 0),
			TempMin:     e.Main.TempMin,
			TempMax:     e.Main.TempMax,
			Description: cond.Description,
			Icon:        cond.Icon,
			Pop:         e.Pop,
		})
	}
	return CollapseDaily(slots, c.loc), nil
}

func first(cs []owmCondition) owmCondition {
	if len(cs) == 0 {
		return owmCondition{}
	}
	return cs[0]
}
