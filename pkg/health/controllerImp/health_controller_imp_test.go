package controllerImp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micampo/entities"
	"micampo/pkg/storage/repository"
	"micampo/pkg/storage/repositoryImp"
)

type users int

func (u users) RegistrySize() int { return int(u) }

type weatherStub struct{ st entities.WeatherState }

func (w weatherStub) State() entities.WeatherState { return w.st }

type brokenKV struct{ repository.KVRepository }

func (brokenKV) Keys() ([]string, error) { return nil, errors.New("locked") }

type healthBody struct {
	Status struct {
		OK bool `json:"ok"`
	} `json:"status"`
	Checks struct {
		Store struct {
			OK   bool     `json:"ok"`
			Keys []string `json:"keys"`
		} `json:"store"`
		Users struct {
			Registered int `json:"registered"`
		} `json:"users"`
		Weather struct {
			OK   bool `json:"ok"`
			Demo bool `json:"demo"`
		} `json:"weather"`
	} `json:"checks"`
}

func check(t *testing.T, h *HealthCtrl) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))
	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthReportsStoreAndRegistry(t *testing.T) {
	kv := repositoryImp.NewMemory()
	require.NoError(t, kv.Set(repository.KeyFarmData, []byte("{}")))
	require.NoError(t, kv.Set(repository.KeyUsers, []byte("[]")))

	code, body := check(t, NewHealthCtrl(nil, kv, weatherStub{entities.WeatherState{Demo: true, Error: "timeout"}}, users(2)))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status.OK)
	assert.True(t, body.Checks.Store.OK)
	assert.Equal(t, []string{repository.KeyFarmData, repository.KeyUsers}, body.Checks.Store.Keys)
	assert.Equal(t, 2, body.Checks.Users.Registered)
	assert.False(t, body.Checks.Weather.OK, "weather failure is reported")
	assert.True(t, body.Checks.Weather.Demo)
}

func TestHealthFailsWhenStoreUnreadable(t *testing.T) {
	code, body := check(t, NewHealthCtrl(nil, brokenKV{repositoryImp.NewMemory()}, nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Status.OK)
	assert.False(t, body.Checks.Store.OK)
}
