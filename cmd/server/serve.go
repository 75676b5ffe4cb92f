package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"micampo/config"
	"micampo/database"
	"micampo/entities"
	"micampo/pkg/ai"
	"micampo/pkg/credential"
	"micampo/pkg/logging"
	"micampo/pkg/metrics"
	"micampo/pkg/middleware"
	"micampo/pkg/storage/repository"
	"micampo/pkg/storage/repositoryImp"
	"micampo/pkg/upstream"
	"micampo/pkg/weather"
	"micampo/router"

	// Auth
	authCtrlImp "micampo/pkg/auth/controllerImp"
	authSvcImp "micampo/pkg/auth/serviceImp"

	// Farm
	farmCtrlImp "micampo/pkg/farm/controllerImp"
	farmSvcImp "micampo/pkg/farm/serviceImp"

	// Weather
	weatherCtrlImp "micampo/pkg/weather/controllerImp"
	weatherSvcImp "micampo/pkg/weather/serviceImp"

	// Chat
	chatCtrlImp "micampo/pkg/chat/controllerImp"
	chatSvcImp "micampo/pkg/chat/serviceImp"

	// Health
	healthCtrlImp "micampo/pkg/health/controllerImp"
)

func runServe(cmd *cobra.Command, _ []string) error {
	// 1) Config + logger
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if memoryOnly {
		cfg.Memory = true
	}
	cfg.ResolveSecrets(credential.Get, credential.OpenWeatherKey, credential.OpenAIKey)

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("config", zap.Any("cfg", cfg.Redacted()))

	// 2) Storage
	var (
		kv repository.KVRepository
		db *gorm.DB
	)
	if cfg.Memory {
		kv = repositoryImp.NewMemory()
	} else {
		if db, err = database.OpenSQLite(cfg.DBPath); err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()
		kv = repositoryImp.New(db)
	}

	// 3) Services
	m := metrics.New()
	farm := farmSvcImp.NewFarmService(kv, log, m)
	auth := authSvcImp.NewAuthService(kv, log, authSvcImp.Options{DemoMode: cfg.DemoMode, BcryptCost: cfg.BcryptCost})

	guard := func(name string) *upstream.Guard {
		return upstream.NewGuard(upstream.Settings{
			Name:            name,
			MaxRetries:      cfg.RetryMax,
			BreakerFailures: cfg.BreakerFailures,
			BreakerOpenFor:  cfg.BreakerOpenFor,
		}, log, m)
	}

	var wc weather.Client
	if cfg.WeatherConfigured() {
		wc = weather.NewOpenWeather(cfg.OpenWeatherURL, cfg.OpenWeatherKey, cfg.HTTPTimeout, guard("openweather"), nil)
	} else {
		log.Info("no OpenWeather key, serving demo weather")
		wc = weather.NewDemo(cfg.City)
	}
	wSvc := weatherSvcImp.NewWeatherService(wc, farm, log, m, weatherSvcImp.Options{
		Default: entities.Coords{Lat: cfg.Lat, Lon: cfg.Lon},
		Demo:    !cfg.WeatherConfigured(),
	})

	// LLM (rules fallback)
	var llm ai.Client
	mode := "api"
	if cfg.AIConfigured() {
		llm = ai.NewOpenAI(cfg.OpenAIEndpoint, cfg.OpenAIKey, cfg.OpenAIModel, cfg.HTTPTimeout, guard("openai"))
	} else {
		log.Info("no OpenAI key, chat answers from local rules")
		llm = ai.NewMock(farm)
		mode = "rules"
	}
	chat := chatSvcImp.NewChatService(llm, farm, mode, log, m)

	// 4) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover(), middleware.RequestLogger(log))
	if st, err := os.Stat(staticDir); err == nil && st.IsDir() {
		e.Static("/", staticDir)
	} else {
		log.Debug("static dir not found, API only", zap.String("dir", staticDir))
	}
	router.New(
		e,
		auth,
		cfg.RequireAuth,
		authCtrlImp.NewAuthController(auth),
		farmCtrlImp.New(farm),
		weatherCtrlImp.New(wSvc),
		chatCtrlImp.New(chat),
		healthCtrlImp.NewHealthCtrl(db, kv, wSvc, auth),
		m.Handler(),
	)

	// 5) Run server + refresher until a signal arrives
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", ":"+cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error { return wSvc.Run(gctx, cfg.WeatherRefresh) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
