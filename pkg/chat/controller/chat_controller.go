package controller

import "github.com/labstack/echo/v4"

type ChatController interface {
	Get(c echo.Context) error
	Send(c echo.Context) error
	Clear(c echo.Context) error
}
