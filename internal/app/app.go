package app

import (
	"context"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/hotelworks/kotboard/internal/auth"
	"github.com/hotelworks/kotboard/internal/events"
	"github.com/hotelworks/kotboard/internal/hotelapi"
	"github.com/hotelworks/kotboard/internal/kot"
	"github.com/hotelworks/kotboard/internal/poll"
	"github.com/hotelworks/kotboard/pkg"
)

const (
	AppName    = "kotboard"
	AppVersion = "0.1.0"
)

// App encapsulates the KOT board service application
type App struct {
	config *aqm.Config
	logger aqm.Logger
	micro  *aqm.Micro
}

// New creates a new KOT board application
func New(config *aqm.Config, logger aqm.Logger) (*App, error) {
	return &App{
		config: config,
		logger: logger,
	}, nil
}

// Initialize sets up all dependencies and components
func (a *App) Initialize(ctx context.Context) error {
	ordersURL, _ := a.config.GetString("services.orders.url")
	menuURL, _ := a.config.GetString("services.menu.url")
	staffURL, _ := a.config.GetString("services.staff.url")
	tablesURL, _ := a.config.GetString("services.table.url")
	token, _ := a.config.GetString("auth.token")
	if ordersURL == "" {
		ordersURL = "http://localhost:8080"
	}

	api, err := hotelapi.New(hotelapi.Options{
		OrdersURL: ordersURL,
		MenuURL:   menuURL,
		StaffURL:  staffURL,
		TablesURL: tablesURL,
		Token:     token,
	}, a.logger)
	if err != nil {
		return err
	}

	store := kot.NewTicketStore(a.logger)
	board := kot.NewBoard(api, store, a.logger)
	syncer := kot.NewStatusSyncer(api, store, a.logger)

	secret, _ := a.config.GetString("auth.secret")
	verifier := auth.NewVerifier([]byte(secret))

	interval := poll.DefaultInterval
	if intervalStr, ok := a.config.GetString("poll.interval"); ok && intervalStr != "" {
		if parsed, err := time.ParseDuration(intervalStr); err == nil {
			interval = parsed
		} else {
			a.logger.Info("invalid poll.interval value, using default", "value", intervalStr, "error", err)
		}
	}
	scheduler := poll.NewScheduler(interval, board.Refresh, a.logger)

	handler := kot.NewHandler(board, syncer, verifier, scheduler, a.logger)

	// The push channel is optional. When NATS is unreachable the board runs
	// on polling alone, which is already correct.
	var natsSubscriber *pkg.NATSSubscriber
	natsURL, _ := a.config.GetString("nats.url")
	if natsURL != "" {
		natsSubscriber, err = pkg.NewNATSSubscriber(natsURL)
		if err != nil {
			a.logger.Errorf("NATS unavailable, continuing on polling alone: %v", err)
			natsSubscriber = nil
		}
	}

	var eventSubscriber *events.OrderEventSubscriber
	if natsSubscriber != nil {
		eventSubscriber = events.NewOrderEventSubscriber(natsSubscriber, scheduler, a.logger)
	} else {
		eventSubscriber = events.NewOrderEventSubscriber(nil, scheduler, a.logger)
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      a.logger,
		DisableCORS: true,
	})

	lifecycles := []interface{}{scheduler, eventSubscriber}
	if natsSubscriber != nil {
		subscriberLifecycle := aqm.LifecycleHooks{
			OnStop: func(context.Context) error { return natsSubscriber.Close() },
		}
		lifecycles = append(lifecycles, subscriberLifecycle)
	}

	options := []aqm.Option{
		aqm.WithConfig(a.config),
		aqm.WithLogger(a.logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(AppName),
	}

	a.micro = aqm.NewMicro(options...)
	return nil
}

// Run starts the application
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}
