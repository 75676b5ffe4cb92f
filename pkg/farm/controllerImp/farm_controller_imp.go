package controllerImp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"micampo/entities"
	"micampo/pkg/farm/controller"
	"micampo/pkg/farm/service"
	"micampo/pkg/report"
)

type farmCtrl struct{ s service.FarmService }

func New(s service.FarmService) controller.FarmController { return &farmCtrl{s: s} }

// fail maps service errors onto HTTP statuses.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalid), errors.Is(err, service.ErrNegativeAmount):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateRFID):
		status = http.StatusConflict
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func badJSON(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
}

func (h *farmCtrl) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.Snapshot())
}

func (h *farmCtrl) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.Summary())
}

func (h *farmCtrl) Export(c echo.Context) error {
	buf, err := report.Workbook(h.s.Snapshot())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	name := fmt.Sprintf("micampo-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}

// plots

func (h *farmCtrl) CreatePlot(c echo.Context) error {
	var in entities.Plot
	if err := c.Bind(&in); err != nil {
		return badJSON(c)
	}
	out, err := h.s.AddPlot(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *farmCtrl) PatchPlot(c echo.Context) error {
	var p service.PlotPatch
	if err := c.Bind(&p); err != nil {
		return badJSON(c)
	}
	out, err := h.s.UpdatePlot(c.Param("id"), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *farmCtrl) DeletePlot(c echo.Context) error {
	if err := h.s.DeletePlot(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// animals

// ListAnimals filters by ?q= over RFID and name.
func (h *farmCtrl) ListAnimals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.Animals(c.QueryParam("q")))
}

func (h *farmCtrl) CreateAnimal(c echo.Context) error {
	var in entities.Animal
	if err := c.Bind(&in); err != nil {
		return badJSON(c)
	}
	out, err := h.s.AddAnimal(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *farmCtrl) PatchAnimal(c echo.Context) error {
	var p service.AnimalPatch
	if err := c.Bind(&p); err != nil {
		return badJSON(c)
	}
	out, err := h.s.UpdateAnimal(c.Param("id"), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *farmCtrl) DeleteAnimal(c echo.Context) error {
	if err := h.s.DeleteAnimal(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// supplies

func (h *farmCtrl) CreateSupply(c echo.Context) error {
	var in entities.Supply
	if err := c.Bind(&in); err != nil {
		return badJSON(c)
	}
	out, err := h.s.AddSupply(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *farmCtrl) PatchSupply(c echo.Context) error {
	var p service.SupplyPatch
	if err := c.Bind(&p); err != nil {
		return badJSON(c)
	}
	out, err := h.s.UpdateSupply(c.Param("id"), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *farmCtrl) DeleteSupply(c echo.Context) error {
	if err := h.s.DeleteSupply(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *farmCtrl) ConsumeSupply(c echo.Context) error {
	var body struct {
		Amount *float64 `json:"cantidad"`
	}
	if err := c.Bind(&body); err != nil || body.Amount == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cantidad is required"})
	}
	out, err := h.s.ConsumeSupply(c.Param("id"), *body.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// tasks

func (h *farmCtrl) CreateTask(c echo.Context) error {
	var in entities.Task
	if err := c.Bind(&in); err != nil {
		return badJSON(c)
	}
	out, err := h.s.AddTask(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *farmCtrl) PatchTask(c echo.Context) error {
	var p service.TaskPatch
	if err := c.Bind(&p); err != nil {
		return badJSON(c)
	}
	out, err := h.s.UpdateTask(c.Param("id"), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *farmCtrl) DeleteTask(c echo.Context) error {
	if err := h.s.DeleteTask(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
