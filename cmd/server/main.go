// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quixsi/tablefinder/internal/controller"
	"github.com/quixsi/tablefinder/internal/db"
	"github.com/quixsi/tablefinder/internal/db/jsondb"
	"github.com/quixsi/tablefinder/internal/db/kvdb"
	"github.com/quixsi/tablefinder/internal/lookup"
	"github.com/quixsi/tablefinder/internal/server"
)

// defaultSessionStore keeps sessions in memory only. kvdb:// and
// jsondb://path write them to disk.
const defaultSessionStore = "jsondb://"

func main() {
	// a missing .env is fine, flags and the environment still apply
	_ = godotenv.Load()

	var (
		serviceName = flag.String("service-name", getEnv("TABLEFINDER_SERVICE_NAME", "table-finder"), "otel service name")
		addr        = flag.String("addr", getEnv("TABLEFINDER_ADDR", "0.0.0.0:8080"), "default server address")
		dbStr       = flag.String("db", getEnv("TABLEFINDER_DB", defaultSessionStore), "session store connection string, jsondb:// (in memory), jsondb://path or kvdb://path")
		otlpAddr    = flag.String("otlp-grpc", getEnv("TABLEFINDER_OTLP_GRPC", ""), "default otlp/gRPC address, by default disabled. Example value: localhost:4317")
		logLevelArg = flag.String("log-level", getEnv("TABLEFINDER_LOG_LEVEL", "INFO"), "log level")
		staticDir   = flag.String("static-dir", getEnv("TABLEFINDER_STATIC_DIR", ""), "path to static directory")
		lookupURL   = flag.String("lookup-url", getEnv("TABLEFINDER_LOOKUP_URL", lookup.DefaultBaseURL), "base url of the guest lookup service")
		mapURL      = flag.String("map-url", getEnv("TABLEFINDER_MAP_URL", "/static/map.svg"), "url of the venue map image")
		sessionTTL  = flag.Duration("session-ttl", 24*time.Hour, "sessions idle for longer are pruned")
	)
	flag.Parse()

	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(jsonHandler)
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)
	logger.Info("start and listen", "address", *addr)
	logger.Info("otlp/gRPC", "address", *otlpAddr, "service", *serviceName)
	logger.Info("lookup service", "url", *lookupURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *otlpAddr != "" {
		shutdown, err := setupOTLP(ctx, *otlpAddr)
		if err != nil {
			logger.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown()
	}

	sessionStore, closeStore, err := openSessionStore(*dbStr)
	if err != nil {
		logger.Error("could not initialize session store", "db", *dbStr, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("could not close session store", "error", err)
		}
	}()

	client, err := lookup.NewClient(*lookupURL)
	if err != nil {
		logger.Error("could not initialize lookup client", "error", err)
		os.Exit(1)
	}

	ctrl := controller.New(sessionStore, client)
	go pruneSessions(ctx, logger, ctrl, *sessionTTL)

	srv := &http.Server{
		Addr:              *addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler:           server.NewServer(*serviceName, *staticDir, *mapURL, ctrl),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("error during listen and serve", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown")
}

func openSessionStore(dbStr string) (db.SessionStore, func() error, error) {
	u, err := url.Parse(dbStr)
	if err != nil {
		return nil, nil, err
	}
	path := u.Host + u.Path

	switch u.Scheme {
	case "kvdb":
		bdb, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
		if err != nil {
			return nil, nil, err
		}
		store, err := kvdb.NewSessionStore(bdb)
		if err != nil {
			bdb.Close()
			return nil, nil, err
		}
		return store, bdb.Close, nil
	case "jsondb":
		store, err := jsondb.NewSessionStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.New("unknown storage backend: " + u.Scheme)
	}
}

func setupOTLP(ctx context.Context, otlpAddr string) (func(), error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	grpcOptions := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock()}
	conn, err := grpc.DialContext(dialCtx, otlpAddr, grpcOptions...)
	if err != nil {
		return nil, err
	}

	// Set up a trace exporter
	otelExporter, err := otlptracegrpc.New(dialCtx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(otelExporter))
	otel.SetTracerProvider(tp)

	return func() {
		_ = tp.Shutdown(context.Background())
		_ = conn.Close()
	}, nil
}

func pruneSessions(ctx context.Context, logger *slog.Logger, ctrl *controller.Controller, ttl time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ctrl.PruneSessions(ctx, ttl)
			if err != nil {
				logger.Warn("could not prune sessions", "error", err)
				continue
			}
			logger.Debug("pruned sessions", "count", n)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
