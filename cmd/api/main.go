package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"

	"gitlab.com/nestpass/twofa-backend/internal/adapters/repos/redisrepo"
	sendgridsvc "gitlab.com/nestpass/twofa-backend/internal/adapters/services/sendgrid"
	twofaapp "gitlab.com/nestpass/twofa-backend/internal/application/twofa"
	httpport "gitlab.com/nestpass/twofa-backend/internal/ports/http"
	"gitlab.com/nestpass/twofa-backend/internal/ports/http/middlewares"
	watermillport "gitlab.com/nestpass/twofa-backend/internal/ports/watermill"
	"gitlab.com/nestpass/twofa-backend/pkg/env"
	"gitlab.com/nestpass/twofa-backend/pkg/logging"
	"gitlab.com/nestpass/twofa-backend/pkg/redisx"
	"gitlab.com/nestpass/twofa-backend/pkg/watermillx"
)

// Config holds all configuration for the service.
type Config struct {
	Mode        env.Mode
	Host        string
	Port        string
	RedisURL    string
	MailSender  string
	MailAPIKey  string
	MailEnabled bool
	LogPath     string
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	config, err := loadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	env.SetMode(config.Mode)
	logger, cleanup := logging.Setup(config.Mode, config.LogPath)
	slog.SetDefault(logger)
	defer cleanup()

	shutdownOTel, err := setupOTelSDK(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up OpenTelemetry SDK", "error", err)
		os.Exit(1)
	}
	defer func() {
		if shutdownOTel != nil {
			if err := shutdownOTel(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shutdown OpenTelemetry SDK", "error", err)
			}
		}
	}()

	slog.InfoContext(ctx, "starting twofa API server",
		"mode", config.Mode,
		"host", config.Host,
		"port", config.Port,
		"mail_enabled", config.MailEnabled,
	)

	// the store connection is established once at startup; if Redis is
	// unreachable the process refuses to start
	redisClient, err := redisx.NewClient(ctx, config.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	store := redisrepo.NewVerificationStore(redisClient, nil, nil)
	mailSender := sendgridsvc.NewClient(config.MailAPIKey, config.MailSender)

	eventRouter, pubsub, eventBus, err := setupEventProcessing()
	if err != nil {
		slog.ErrorContext(ctx, "failed to setup event processing", "error", err)
		os.Exit(1)
	}

	app := twofaapp.NewApp(twofaapp.Args{
		Store:       store,
		Mailsender:  mailSender,
		Publisher:   eventBus,
		MailEnabled: config.MailEnabled,
	})

	wmport, err := watermillport.NewPort(eventRouter, pubsub, watermillx.NewOTelFilteredSlogLogger(slog.Default(), config.Mode.SlogLevel()))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create watermill port", "error", err)
		os.Exit(1)
	}
	if err := wmport.Run(watermillport.AppEventHandlers{TwoFA: app.Event}); err != nil {
		slog.ErrorContext(ctx, "failed to run watermill port", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := eventRouter.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to start event router", "error", err)
			os.Exit(1)
		}
	}()

	httpServer := setupHTTPServer(config, app, redisClient)

	go func() {
		slog.InfoContext(ctx, "starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := eventRouter.Close(); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to close event router", "error", err)
	}

	slog.InfoContext(ctx, "server exited")
}

// loadConfig reads the environment and fails closed: every missing
// required variable is reported in one pass.
func loadConfig() (*Config, error) {
	required := []string{"REDIS_URL", "MAIL_SENDER", "MAIL_API_KEY", "HOST", "PORT"}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	mode := env.Mode(getEnvOrDefault("MODE", string(env.Dev)))
	if !mode.Validate() {
		return nil, fmt.Errorf("invalid MODE: %q", mode)
	}

	return &Config{
		Mode:        mode,
		Host:        os.Getenv("HOST"),
		Port:        os.Getenv("PORT"),
		RedisURL:    os.Getenv("REDIS_URL"),
		MailSender:  os.Getenv("MAIL_SENDER"),
		MailAPIKey:  os.Getenv("MAIL_API_KEY"),
		MailEnabled: getEnvOrDefault("MAIL_ENABLED", "true") == "true",
		LogPath:     os.Getenv("LOG_PATH"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupEventProcessing() (*message.Router, *gochannel.GoChannel, *cqrs.EventBus, error) {
	wlogger := watermillx.NewOTelFilteredSlogLogger(slog.Default(), env.Current().SlogLevel())

	router, err := message.NewRouter(message.RouterConfig{}, wlogger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	pubsub := watermillx.NewPubSub(wlogger)

	eventBus, err := watermillx.NewEventBus(pubsub, wlogger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return router, pubsub, eventBus, nil
}

func setupHTTPServer(config *Config, app *twofaapp.App, redisClient *redis.Client) *http.Server {
	router := chi.NewRouter()
	router.Use(middlewares.OTel)
	router.Use(middlewares.Logger)

	httpPort := httpport.NewPort(httpport.Args{
		TwoFAApp: app,
	})
	httpPort.Route(router)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := redisx.Health(r.Context(), redisClient); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:         config.Host + ":" + config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// setupOTelSDK bootstraps the OpenTelemetry pipeline.
// If it does not return an error, make sure to call shutdown for proper cleanup.
func setupOTelSDK(ctx context.Context) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	handleErr := func(inErr error) {
		err = errors.Join(inErr, shutdown(ctx))
	}

	prop := newPropagator()
	otel.SetTextMapPropagator(prop)

	tracerProvider, err := newTracerProvider()
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMeterProvider()
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	loggerProvider, err := newLoggerProvider()
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	return
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func newTracerProvider() (*trace.TracerProvider, error) {
	traceExporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter,
			trace.WithBatchTimeout(5*time.Second)),
	)
	return tracerProvider, nil
}

func newMeterProvider() (*metric.MeterProvider, error) {
	metricExporter, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(1*time.Minute),
		)),
	)
	return meterProvider, nil
}

func newLoggerProvider() (*log.LoggerProvider, error) {
	logExporter, err := stdoutlog.New()
	if err != nil {
		return nil, err
	}

	loggerProvider := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter)),
	)
	return loggerProvider, nil
}
