package service

import (
	"context"
	"errors"
	"time"

	"micampo/entities"
)

// ErrSuperseded is returned by a refresh whose result was discarded
// because a newer refresh started.
var ErrSuperseded = errors.New("weather refresh superseded")

type WeatherService interface {
	State() entities.WeatherState
	// Refresh fetches current conditions then the forecast. nil coords
	// means the configured default location.
	Refresh(ctx context.Context, at *entities.Coords) error
	// Run refreshes now and then every interval until ctx ends.
	Run(ctx context.Context, interval time.Duration) error
}

// CacheSink receives the summary after each successful refresh.
type CacheSink interface {
	SetWeatherCache(w *entities.WeatherCache)
}
