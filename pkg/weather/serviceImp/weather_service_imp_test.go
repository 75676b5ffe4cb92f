package serviceImp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"micampo/entities"
	"micampo/pkg/weather"
	"micampo/pkg/weather/service"
)

type sink struct {
	mu   sync.Mutex
	last *entities.WeatherCache
	n    int
}

func (s *sink) SetWeatherCache(w *entities.WeatherCache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = w
	s.n++
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// scripted wraps the demo client and fails while failing is set.
type scripted struct {
	*weather.Demo
	failing atomic.Bool
	calls   atomic.Int32
}

func (c *scripted) Current(ctx context.Context, at entities.Coords) (entities.CurrentWeather, error) {
	c.calls.Add(1)
	if c.failing.Load() {
		return entities.CurrentWeather{}, errors.New("network down")
	}
	return c.Demo.Current(ctx, at)
}

func newSvc(c weather.Client, s service.CacheSink) service.WeatherService {
	return NewWeatherService(c, s, zap.NewNop(), nil, Options{
		Default: entities.Coords{Lat: -34.6037, Lon: -58.3816},
		Demo:    true,
	})
}

func TestDemoRefreshPopulatesStateAndCache(t *testing.T) {
	snk := &sink{}
	svc := newSvc(weather.NewDemo("Buenos Aires"), snk)

	require.NoError(t, svc.Refresh(context.Background(), nil))
	st := svc.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, 24.0, st.Current.Temp)
	assert.Len(t, st.Forecast, 5)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.True(t, st.Demo)
	assert.NotNil(t, st.UpdatedAt)

	require.NotNil(t, snk.last)
	assert.Equal(t, 65.0, snk.last.Humidity)
	assert.Len(t, snk.last.Forecast, 5)
}

func TestFailedRefreshKeepsLastGoodData(t *testing.T) {
	c := &scripted{Demo: weather.NewDemo("Buenos Aires")}
	snk := &sink{}
	svc := newSvc(c, snk)
	require.NoError(t, svc.Refresh(context.Background(), nil))
	good := svc.State()

	c.failing.Store(true)
	err := svc.Refresh(context.Background(), nil)
	require.Error(t, err)

	st := svc.State()
	assert.Equal(t, "network down", st.Error)
	assert.Equal(t, good.Current, st.Current)
	assert.Equal(t, good.Forecast, st.Forecast)
	assert.Equal(t, 1, snk.count())

	c.failing.Store(false)
	require.NoError(t, svc.Refresh(context.Background(), nil))
	assert.Empty(t, svc.State().Error)
}

// blocking hangs on its first Current call until the context is cancelled.
type blocking struct {
	*weather.Demo
	entered chan struct{}
	calls   atomic.Int32
}

func (c *blocking) Current(ctx context.Context, at entities.Coords) (entities.CurrentWeather, error) {
	if c.calls.Add(1) == 1 {
		close(c.entered)
		<-ctx.Done()
		return entities.CurrentWeather{}, ctx.Err()
	}
	cur, err := c.Demo.Current(ctx, at)
	cur.City = "Rosario"
	return cur, err
}

func TestNewerRefreshSupersedesInFlight(t *testing.T) {
	c := &blocking{Demo: weather.NewDemo("Buenos Aires"), entered: make(chan struct{})}
	svc := newSvc(c, &sink{})

	first := make(chan error, 1)
	go func() { first <- svc.Refresh(context.Background(), nil) }()
	<-c.entered

	require.NoError(t, svc.Refresh(context.Background(), &entities.Coords{Lat: -32.95, Lon: -60.65}))
	assert.ErrorIs(t, <-first, service.ErrSuperseded)

	st := svc.State()
	assert.Equal(t, "Rosario", st.Current.City)
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
}

func TestRunRefreshesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := &scripted{Demo: weather.NewDemo("Buenos Aires")}
	svc := newSvc(c, &sink{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return c.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
