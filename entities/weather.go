package entities

import "time"

type CurrentWeather struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humedad"`
	Pressure    float64 `json:"presion"`
	WindSpeed   float64 `json:"viento"`
	Description string  `json:"descripcion"`
	Icon        string  `json:"icono"`
	City        string  `json:"ciudad"`
	Country     string  `json:"pais"`
	Sunrise     int64   `json:"amanecer"` // epoch seconds
	Sunset      int64   `json:"atardecer"`
}

// ForecastDay is one calendar day collapsed from 3-hour forecast slots.
type ForecastDay struct {
	Label       string  `json:"fecha"`
	Day         string  `json:"dia,omitempty"` // YYYY-MM-DD, empty for demo data
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"descripcion"`
	Icon        string  `json:"icono"`
	RainProb    float64 `json:"probLluvia"` // percent
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherState is what the fetcher exposes to readers.
type WeatherState struct {
	Current   *CurrentWeather `json:"weather"`
	Forecast  []ForecastDay   `json:"forecast"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	Demo      bool            `json:"demo"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
