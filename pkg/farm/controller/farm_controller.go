package controller

import "github.com/labstack/echo/v4"

type FarmController interface {
	Get(c echo.Context) error
	Export(c echo.Context) error
	Summary(c echo.Context) error

	CreatePlot(c echo.Context) error
	PatchPlot(c echo.Context) error
	DeletePlot(c echo.Context) error

	ListAnimals(c echo.Context) error
	CreateAnimal(c echo.Context) error
	PatchAnimal(c echo.Context) error
	DeleteAnimal(c echo.Context) error

	CreateSupply(c echo.Context) error
	PatchSupply(c echo.Context) error
	DeleteSupply(c echo.Context) error
	ConsumeSupply(c echo.Context) error

	CreateTask(c echo.Context) error
	PatchTask(c echo.Context) error
	DeleteTask(c echo.Context) error
}
