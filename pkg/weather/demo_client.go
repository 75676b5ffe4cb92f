package weather

import (
	"context"
	"time"

	"micampo/entities"
)

// Demo serves fixed conditions without touching the network.
type Demo struct {
	City string
	Now  func() time.Time
}

func NewDemo(city string) *Demo { return &Demo{City: city, Now: time.Now} }

func (d *Demo) Current(_ context.Context, _ entities.Coords) (entities.CurrentWeather, error) {
	now := d.Now().Unix()
	return entities.CurrentWeather{
		Temp:        24,
		FeelsLike:   26,
		Humidity:    65,
		Pressure:    1013,
		WindSpeed:   12,
		Description: "Parcialmente nublado",
		Icon:        "02d",
		City:        d.City,
		Country:     "AR",
		Sunrise:     now - 6*3600,
		Sunset:      now + 6*3600,
	}, nil
}

func (d *Demo) Forecast(_ context.Context, _ entities.Coords) ([]entities.ForecastDay, error) {
	return []entities.ForecastDay{
		{Label: "Hoy", TempMin: 18, TempMax: 28, Description: "Parcialmente nublado", Icon: "02d", RainProb: 20},
		{Label: "Mañana", TempMin: 17, TempMax: 27, Description: "Soleado", Icon: "01d", RainProb: 10},
		{Label: "Miércoles", TempMin: 19, TempMax: 29, Description: "Lluvia ligera", Icon: "10d", RainProb: 60},
		{Label: "Jueves", TempMin: 18, TempMax: 26, Description: "Nublado", Icon: "03d", RainProb: 30},
		{Label: "Viernes", TempMin: 16, TempMax: 25, Description: "Soleado", Icon: "01d", RainProb: 5},
	}, nil
}
