package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"micampo/pkg/auth/controller"
	"micampo/pkg/auth/service"
)

type authCtrl struct{ s service.AuthService }

func NewAuthController(s service.AuthService) controller.AuthController { return &authCtrl{s: s} }

func (h *authCtrl) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	u, err := h.s.Register(in)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, map[string]string{"error": service.ErrEmailTaken.Error()})
	case errors.Is(err, service.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"authenticated": true, "user": u})
}

func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	u, err := h.s.Login(body.Email, body.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": service.ErrInvalidCredentials.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true, "user": u})
}

func (h *authCtrl) Logout(c echo.Context) error {
	h.s.Logout()
	return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
}

func (h *authCtrl) Session(c echo.Context) error {
	u, ok := h.s.Current()
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false, "user": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true, "user": u})
}
