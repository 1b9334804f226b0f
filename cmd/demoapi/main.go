package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/hotelworks/kotboard/internal/demo"
	"github.com/hotelworks/kotboard/pkg"
)

const (
	appName    = "kotboard-demoapi"
	appVersion = "0.1.0"
)

// demoapi is a stand-in hotel backend for local development: it serves the
// order, menu, staff and table endpoints the board polls, seeded with sample
// data, and publishes push events over NATS when something changes.
func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		if err := serve(os.Args[2:]); err != nil {
			log.Fatalf("%s stopped with error: %v", appName, err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func serve(args []string) error {
	config, err := aqm.LoadConfig("DEMOAPI", args)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	// Push events are optional here just as they are on the board side.
	var publisher *pkg.NATSPublisher
	if natsURL, _ := config.GetString("nats.url"); natsURL != "" {
		publisher, err = pkg.NewNATSPublisher(natsURL)
		if err != nil {
			logger.Errorf("NATS unavailable, demo runs without push events: %v", err)
			publisher = nil
		}
	}

	// Assign through a local so a nil *NATSPublisher stays a nil interface.
	var storePublisher events.Publisher
	if publisher != nil {
		storePublisher = publisher
	}
	store := demo.NewStore(storePublisher, logger)
	handler := demo.NewHandler(store, logger)

	lifecycles := []interface{}{}
	if publisher != nil {
		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStop: func(context.Context) error { return publisher.Close() },
		})
	}
	if churn := churnInterval(config, logger); churn > 0 {
		lifecycles = append(lifecycles, newChurnLoop(store, churn, logger))
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})

	micro := aqm.NewMicro(
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	)

	logger.Infof("Starting %s(%s)", appName, appVersion)
	return micro.Run(ctx)
}

func churnInterval(config *aqm.Config, logger aqm.Logger) time.Duration {
	raw, ok := config.GetString("churn.interval")
	if !ok || raw == "" {
		return 0
	}
	interval, err := time.ParseDuration(raw)
	if err != nil {
		logger.Info("invalid churn.interval value, churn disabled", "value", raw, "error", err)
		return 0
	}
	return interval
}

// churnLoop places a fresh demo order at a fixed cadence so the board has
// live traffic to show.
type churnLoop struct {
	store    *demo.Store
	interval time.Duration
	logger   aqm.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func newChurnLoop(store *demo.Store, interval time.Duration, logger aqm.Logger) *churnLoop {
	return &churnLoop{
		store:    store,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (c *churnLoop) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	go c.run(loopCtx)
	return nil
}

func (c *churnLoop) run(ctx context.Context) {
	defer close(c.done)
	c.logger.Infof("demo churn started, one order every %s", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			order := c.store.PlaceOrder(ctx)
			c.logger.Infof("demo churn placed order %s", order.ID)
		}
	}
}

func (c *churnLoop) Stop(ctx context.Context) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printUsage() {
	fmt.Printf(`%s - stand-in hotel backend for the KOT board

Usage:
  %s <command> [options]

Commands:
  serve        Start the demo backend (default)
  version      Print version information
  help         Show this help message

Environment Variables:
  DEMOAPI_WEB_PORT        HTTP port to listen on (default: 8080)
  DEMOAPI_NATS_URL        NATS URL for push events (optional)
  DEMOAPI_CHURN_INTERVAL  Cadence for auto-placed demo orders, e.g. 30s (optional)
  DEMOAPI_LOG_LEVEL       Log level: debug, info, warn, error (default: info)

Examples:
  %s serve
  DEMOAPI_WEB_PORT=8080 DEMOAPI_CHURN_INTERVAL=30s %s serve
`, appName, appName, appName, appName)
}
