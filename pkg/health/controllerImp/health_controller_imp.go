package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"micampo/entities"
	"micampo/pkg/storage/repository"
)

var appStart = time.Now()

type WeatherState interface {
	State() entities.WeatherState
}

type Registry interface {
	RegistrySize() int
}

type HealthCtrl struct {
	db      *gorm.DB
	kv      repository.KVRepository
	weather WeatherState
	users   Registry
}

// NewHealthCtrl checks the database and the state store; weather and the
// user registry are reported but never fail the check. db may be nil for
// in-memory runs.
func NewHealthCtrl(db *gorm.DB, kv repository.KVRepository, weather WeatherState, users Registry) *HealthCtrl {
	return &HealthCtrl{db: db, kv: kv, weather: weather, users: users}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	checks := map[string]any{}
	dbOK := true
	if h.db != nil {
		dbErr := ""
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
		checks["database"] = sub{OK: dbOK, Err: dbErr}
	} else {
		checks["database"] = sub{OK: true, Err: "in-memory"}
	}

	if h.kv != nil {
		keys, err := h.kv.Keys()
		if err != nil {
			dbOK = false
			checks["store"] = sub{OK: false, Err: "keys: " + err.Error()}
		} else {
			checks["store"] = map[string]any{"ok": true, "keys": keys}
		}
	}

	if h.users != nil {
		checks["users"] = map[string]any{"registered": h.users.RegistrySize()}
	}

	if h.weather != nil {
		st := h.weather.State()
		checks["weather"] = map[string]any{
			"ok":         st.Error == "",
			"err":        st.Error,
			"demo":       st.Demo,
			"updated_at": st.UpdatedAt,
		}
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}
