package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"micampo/pkg/chat/controller"
	"micampo/pkg/chat/service"
)

type chatCtrl struct{ s service.ChatService }

func New(s service.ChatService) controller.ChatController { return &chatCtrl{s: s} }

func (h *chatCtrl) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.State())
}

// Send answers 200 even when the completion call failed: the apology is
// part of the transcript and the error is reported in the state.
func (h *chatCtrl) Send(c echo.Context) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	if _, err := h.s.Send(c.Request().Context(), body.Content); errors.Is(err, service.ErrEmptyMessage) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.s.State())
}

func (h *chatCtrl) Clear(c echo.Context) error {
	h.s.Clear()
	return c.JSON(http.StatusOK, h.s.State())
}
