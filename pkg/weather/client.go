// pkg/weather/client.go

package weather

import (
	"context"

	"micampo/entities"
)

// Client fetches normalised conditions for a coordinate pair.
type Client interface {
	Current(ctx context.Context, at entities.Coords) (entities.CurrentWeather, error)
	Forecast(ctx context.Context, at entities.Coords) ([]entities.ForecastDay, error)
}

const ForecastDays = 5
