package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/erazemk/gotchan/internal/api"
	"github.com/erazemk/gotchan/internal/config"
	"github.com/erazemk/gotchan/internal/db"
	"github.com/erazemk/gotchan/internal/matchcache"
	"github.com/erazemk/gotchan/internal/service"
	"github.com/erazemk/gotchan/internal/store"
	"github.com/erazemk/gotchan/internal/telemetry"
)

const usage = `Usage: gotchan [flags]

Settings are read from GOTCHAN_* environment variables and an optional .env
file. Flags override them.

Flags:
  -d, -db <path>          SQLite database path (default: gotchan.db)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("gotchan", flag.ContinueOnError)
	fs.StringVar(&cfg.DB, "db", cfg.DB, "")
	fs.StringVar(&cfg.DB, "d", cfg.DB, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.Log, "log", cfg.Log, "")
	fs.StringVar(&cfg.Log, "l", cfg.Log, "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("flushing traces", "error", err)
		}
	}()

	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB)

	jwtSecret, err := store.GetJWTSecret(ctx, database, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("loading JWT secret: %w", err)
	}

	matches, closeCache, err := openMatchCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	svc := service.New(database, matches, service.TrustPolicy{
		FinishReward:  cfg.TrustFinishReward,
		CancelPenalty: cfg.TrustCancelPenalty,
	})

	handler := api.NewRouter(svc, api.Options{
		JWTSecret:   jwtSecret,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(handler, "gotchan"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}
	slog.Info("server started", "addr", ln.Addr().String())
	if err := serve(server, ln, quit); err != nil {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// serve runs server on ln until a signal arrives on quit, then waits for
// in-flight requests to drain before returning.
func serve(server *http.Server, ln net.Listener, quit <-chan os.Signal) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig, ok := <-quit
		if !ok {
			return
		}
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

// openMatchCache connects to Redis when configured and falls back to an
// in-process cache otherwise. A zero TTL disables caching.
func openMatchCache(ctx context.Context, cfg *config.Config) (matchcache.Cache, func(), error) {
	if cfg.MatchCacheTTL == 0 {
		slog.Info("match cache disabled")
		return matchcache.Nop{}, func() {}, nil
	}
	if cfg.RedisURL == "" {
		slog.Info("match cache in memory", "ttl", cfg.MatchCacheTTL)
		return matchcache.NewMemory(cfg.MatchCacheTTL), func() {}, nil
	}

	rdb, err := matchcache.Dial(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.Info("match cache in redis", "ttl", cfg.MatchCacheTTL)
	return matchcache.NewRedis(rdb, cfg.MatchCacheTTL), func() { rdb.Close() }, nil
}
