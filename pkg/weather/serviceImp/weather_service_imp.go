package serviceImp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"micampo/entities"
	"micampo/pkg/metrics"
	"micampo/pkg/weather"
	"micampo/pkg/weather/service"
)

const DefaultInterval = 30 * time.Minute

type Options struct {
	Default entities.Coords
	// Demo marks the client as canned data; it is reported in State.
	Demo bool
	Now  func() time.Time
}

type weatherSvc struct {
	client weather.Client
	sink   service.CacheSink
	opts   Options
	log    *zap.Logger
	m      *metrics.Metrics

	mu     sync.Mutex
	state  entities.WeatherState
	gen    uint64
	cancel context.CancelFunc
}

func NewWeatherService(c weather.Client, sink service.CacheSink, log *zap.Logger, m *metrics.Metrics, opts Options) service.WeatherService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &weatherSvc{
		client: c,
		sink:   sink,
		opts:   opts,
		log:    log.Named("weather"),
		m:      m,
		state:  entities.WeatherState{Forecast: []entities.ForecastDay{}, Demo: opts.Demo},
	}
}

func (s *weatherSvc) State() entities.WeatherState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	if s.state.Current != nil {
		cur := *s.state.Current
		out.Current = &cur
	}
	out.Forecast = append([]entities.ForecastDay{}, s.state.Forecast...)
	if s.state.UpdatedAt != nil {
		at := *s.state.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func (s *weatherSvc) Refresh(ctx context.Context, at *entities.Coords) error {
	coords := s.opts.Default
	if at != nil {
		coords = *at
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state.Loading = true
	s.mu.Unlock()
	defer cancel()

	cur, err := s.client.Current(rctx, coords)
	var days []entities.ForecastDay
	if err == nil {
		days, err = s.client.Forecast(rctx, coords)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("discarding superseded refresh", zap.Uint64("gen", gen))
		return service.ErrSuperseded
	}
	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		// keep the last good data
		s.state.Error = err.Error()
		s.log.Warn("weather refresh failed", zap.Error(err),
			zap.Float64("lat", coords.Lat), zap.Float64("lon", coords.Lon))
		return err
	}
	now := s.opts.Now()
	s.state.Current = &cur
	s.state.Forecast = days
	s.state.Error = ""
	s.state.UpdatedAt = &now
	s.m.WeatherRefreshed(float64(now.Unix()))

	if s.sink != nil {
		s.sink.SetWeatherCache(&entities.WeatherCache{
			Temp:        cur.Temp,
			Humidity:    cur.Humidity,
			Description: cur.Description,
			Icon:        cur.Icon,
			Forecast:    days,
		})
	}
	s.log.Info("weather refreshed", zap.String("city", cur.City), zap.Float64("temp", cur.Temp), zap.Int("days", len(days)))
	return nil
}

func (s *weatherSvc) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	_ = s.Refresh(ctx, nil)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_ = s.Refresh(ctx, nil)
		}
	}
}
