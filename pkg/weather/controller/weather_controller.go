package controller

import "github.com/labstack/echo/v4"

type WeatherController interface {
	Get(c echo.Context) error
	Refresh(c echo.Context) error
}
