package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/steemflagrewards/sfrbot/engine"
	"github.com/steemflagrewards/sfrbot/flagstore"
	"github.com/steemflagrewards/sfrbot/sdl"
	"github.com/steemflagrewards/sfrbot/steem"
	"github.com/steemflagrewards/sfrbot/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"gorm.io/gorm"
)

type Server struct {
	logger *slog.Logger
	engine *engine.Engine
	roster *sdl.Roster
	echo   *echo.Echo
}

type Config struct {
	SteemAPIURL      string
	WalletURL        string
	Account          string
	QuorumThreshold  int
	SharePct         int
	LowPowerFloorPct float64
	WebhookURL       string
	NodeRateLimit    float64
	Logger           *slog.Logger
}

func NewServer(db *gorm.DB, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	store, err := flagstore.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing flag store: %w", err)
	}

	client := steem.NewClient(steem.ClientConfig{
		APIURL:    config.SteemAPIURL,
		WalletURL: config.WalletURL,
		RateLimit: config.NodeRateLimit,
		Logger:    logger.With("component", "steem"),
		HTTPC:     util.RobustHTTPClient(),
	})

	roster, err := sdl.NewRoster(db, client, logger.With("component", "sdl"))
	if err != nil {
		return nil, fmt.Errorf("initializing roster: %w", err)
	}

	var notifier engine.Notifier = engine.NoopNotifier{}
	if config.WebhookURL != "" {
		notifier = &engine.WebhookNotifier{URL: config.WebhookURL, HTTPC: util.RobustHTTPClient()}
	}

	eng := &engine.Engine{
		Logger:           logger.With("component", "engine"),
		Ledger:           client,
		Store:            store,
		Notifier:         notifier,
		Account:          config.Account,
		QuorumThreshold:  config.QuorumThreshold,
		SharePct:         config.SharePct,
		LowPowerFloorPct: config.LowPowerFloorPct,
		StatementTags:    []string{"steemflagrewards", "abuse", "steem", "flag"},
	}

	s := &Server{
		logger: logger,
		engine: eng,
		roster: roster,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())

	e.POST("/reports", s.handleSubmitReport)
	e.GET("/status", s.handleStatus)
	e.POST("/sdl", s.handleRosterAdd)
	e.DELETE("/sdl/:name", s.handleRosterRemove)
	e.GET("/sdl", s.handleRosterList)
	e.GET("/sdl/export", s.handleRosterExport)
	e.POST("/sdl/refresh", s.handleRosterRefresh)

	s.echo = e
	return s, nil
}

func (s *Server) RunAPI(bind string) error {
	go func() {
		if err := s.echo.Start(bind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API listener failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}
