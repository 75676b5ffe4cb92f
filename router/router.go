package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authCtrl "micampo/pkg/auth/controller"
	chatCtrl "micampo/pkg/chat/controller"
	farmCtrl "micampo/pkg/farm/controller"
	"micampo/pkg/middleware"
	weatherCtrl "micampo/pkg/weather/controller"
)

func New(
	e *echo.Echo,
	session middleware.SessionSource,
	requireAuth bool,
	auth authCtrl.AuthController,
	farm farmCtrl.FarmController,
	weather weatherCtrl.WeatherController,
	chat chatCtrl.ChatController,
	healthCtrl interface{ Health(echo.Context) error },
	metrics http.Handler,
) *echo.Echo {
	e.Use(middleware.Session(session))

	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", echo.WrapHandler(metrics))

	a := e.Group("/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/logout", auth.Logout)
	a.GET("/session", auth.Session)

	api := e.Group("/api/v1", middleware.RequireSession(requireAuth))
	api.GET("/farm", farm.Get)
	api.GET("/farm/summary", farm.Summary)
	api.GET("/farm/export.xlsx", farm.Export)

	api.POST("/plots", farm.CreatePlot)
	api.PATCH("/plots/:id", farm.PatchPlot)
	api.DELETE("/plots/:id", farm.DeletePlot)

	api.GET("/animals", farm.ListAnimals)
	api.POST("/animals", farm.CreateAnimal)
	api.PATCH("/animals/:id", farm.PatchAnimal)
	api.DELETE("/animals/:id", farm.DeleteAnimal)

	api.POST("/supplies", farm.CreateSupply)
	api.PATCH("/supplies/:id", farm.PatchSupply)
	api.DELETE("/supplies/:id", farm.DeleteSupply)
	api.POST("/supplies/:id/consume", farm.ConsumeSupply)

	api.POST("/tasks", farm.CreateTask)
	api.PATCH("/tasks/:id", farm.PatchTask)
	api.DELETE("/tasks/:id", farm.DeleteTask)

	api.GET("/weather", weather.Get)
	api.POST("/weather/refresh", weather.Refresh)

	api.GET("/chat", chat.Get)
	api.POST("/chat/messages", chat.Send)
	api.DELETE("/chat", chat.Clear)
	return e
}
