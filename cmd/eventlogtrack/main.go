package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/channel"
	"github.com/crimson-sun/eventlogtrack/internal/config"
	"github.com/crimson-sun/eventlogtrack/internal/engine"
	"github.com/crimson-sun/eventlogtrack/internal/engine/classifier"
	"github.com/crimson-sun/eventlogtrack/internal/engine/locale"
	"github.com/crimson-sun/eventlogtrack/internal/logging"
	"github.com/crimson-sun/eventlogtrack/internal/metrics"
	"github.com/crimson-sun/eventlogtrack/internal/output/stdout"
	"github.com/crimson-sun/eventlogtrack/internal/output/syslog"
	"github.com/crimson-sun/eventlogtrack/internal/router"
	"github.com/crimson-sun/eventlogtrack/internal/tracker"

	// Register channel backends.
	_ "github.com/crimson-sun/eventlogtrack/internal/output/file"
	_ "github.com/crimson-sun/eventlogtrack/internal/output/redis"
	_ "github.com/crimson-sun/eventlogtrack/internal/output/webhook"
)

func main() {
	cfg := config.Load()
	flag.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	flag.Parse()

	if cfg.ShowVersion {
		fmt.Printf("eventlogtrack %s\n", config.Version)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "eventlogtrack: invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	consoleDirect := cfg.Enabled(config.OutputStdout) && cfg.Stdout.OutputType == config.OutputStdout
	logger := logging.New(consoleDirect, logging.ParseLevel(cfg.LogLevel))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize the host channel.
	factory, err := channel.Build(cfg.Channel.Outputs, cfg.Channel.Settings(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build logging channel")
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logger.Error().Err(err).Msg("channel close error")
		}
	}()
	ch := factory.Get(cfg.Channel.Name)

	// Initialize engine. Language was checked by Validate.
	tag, _ := locale.Parse(cfg.Language)
	eng := engine.New(classifier.New(), locale.New(tag))

	trackers := buildTrackers(cfg, eng, ch, logger, m)

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, m, logger)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info().
		Strs("modules", cfg.Modules).
		Strs("channel_outputs", cfg.Channel.Outputs).
		Str("version", config.Version).
		Msg("eventlogtrack: starting")

	if err := relay(ctx, os.Stdin, trackers, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("relay error")
	}
}

func buildTrackers(cfg config.Config, eng *engine.Engine, ch *channel.Channel, logger zerolog.Logger, m *metrics.Metrics) []eventLogger {
	var trackers []eventLogger
	routerOpts := []router.Option{router.WithLogger(logger), router.WithMetrics(m)}
	trackerOpts := []tracker.Option{tracker.WithLogger(logger), tracker.WithMetrics(m)}

	if cfg.Enabled(config.OutputStdout) {
		out := stdout.New(cfg.Stdout.UseStderr)
		r := router.New(config.OutputStdout, out, ch, routerOpts...)
		trackers = append(trackers, tracker.NewStdout(cfg.Stdout, eng, r, trackerOpts...))
	}
	if cfg.Enabled(config.OutputSyslog) {
		facility, _ := syslog.ParseFacility(cfg.Syslog.Facility)
		out := syslog.New(syslog.NewConnection(facility, cfg.Syslog.Identity, nil))
		r := router.New(config.OutputSyslog, out, ch, routerOpts...)
		trackers = append(trackers, tracker.NewSyslog(cfg.Syslog, eng, r, trackerOpts...))
	}
	return trackers
}

func serveMetrics(addr string, m *metrics.Metrics, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server error")
		}
	}()
	return srv
}
