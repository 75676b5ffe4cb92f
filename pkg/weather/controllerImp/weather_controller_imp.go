package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"micampo/entities"
	"micampo/pkg/weather/controller"
	"micampo/pkg/weather/service"
)

type weatherCtrl struct{ s service.WeatherService }

func New(s service.WeatherService) controller.WeatherController { return &weatherCtrl{s: s} }

func (h *weatherCtrl) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.State())
}

// Refresh accepts optional ?lat=&lon=; both or neither.
func (h *weatherCtrl) Refresh(c echo.Context) error {
	var at *entities.Coords
	latS, lonS := c.QueryParam("lat"), c.QueryParam("lon")
	if latS != "" || lonS != "" {
		lat, err1 := strconv.ParseFloat(latS, 64)
		lon, err2 := strconv.ParseFloat(lonS, 64)
		if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lat/lon"})
		}
		at = &entities.Coords{Lat: lat, Lon: lon}
	}
	err := h.s.Refresh(c.Request().Context(), at)
	switch {
	case err == nil, errors.Is(err, service.ErrSuperseded):
		return c.JSON(http.StatusOK, h.s.State())
	default:
		return c.JSON(http.StatusBadGateway, h.s.State())
	}
}
