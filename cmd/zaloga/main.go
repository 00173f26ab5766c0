package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/cache"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const usage = `Usage: zaloga [serve|seed|token] [flags]

Commands:
  serve    run the HTTP server (default)
  seed     fill empty category, supplier and location tables with sample rows
  token    print a bearer token for write requests

Flags:
  -driver <name>          database driver, sqlite or mysql (default: sqlite)
  -d, -db <dsn>           SQLite path or MySQL DSN (default: zaloga.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -auth                   require a bearer token for POST, PATCH and DELETE
  -redis <host:port>      cache reference data in Redis
  -h, -help               show this help and exit

token flags:
  -s, -subject <name>     token subject (default: zalogactl)
  -ttl <duration>         token lifetime (default: 720h)

Settings can also come from zaloga.yaml (or the file named by ZALOGA_CONFIG)
and from ZALOGA_* environment variables, e.g. ZALOGA_DB_DSN.
`

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var run func(*config.Config, []string) error
	switch cmd {
	case "serve":
		run = cmdServe
	case "seed":
		run = cmdSeed
	case "token":
		run = cmdToken
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("ZALOGA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags binds the shared flags plus any extras, parses args and sets up
// logging. The returned cleanup closes the log file.
func parseFlags(name string, cfg *config.Config, args []string, extra func(*flag.FlagSet)) (func(), error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }
	cfg.Bind(fs)
	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return setupLogger(cfg.Log.Path)
}

// openDatabase opens the configured database and makes sure the schema exists.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database, cfg.DB.Driver); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return database, nil
}

// newCache builds the reference cache: Redis when an address is set,
// process memory when only a TTL is set, none otherwise.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.Cache.TTL == 0 {
		return nil, func() {}, nil
	}
	if cfg.Redis.Addr == "" {
		return cache.NewMemory(cfg.Cache.TTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return cache.NewRedis(client, cfg.Cache.TTL), func() { client.Close() }, nil
}

// newHandler combines the routers: API routes take priority, web routes
// handle the rest. Bare /api goes straight to the API's JSON 404 rather than
// the mux's redirect to /api/.
func newHandler(apiRouter, webRouter http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/api", apiRouter)
	mux.Handle("/", webRouter)
	return api.LoggingMiddleware(mux)
}

func cmdServe(cfg *config.Config, args []string) error {
	closeLog, err := parseFlags("serve", cfg, args, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("database ready", "driver", cfg.DB.Driver)

	ctx := context.Background()

	refCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := api.Options{
		Cache:     refCache,
		RateLimit: rate.Limit(cfg.RateLimit.RPS),
		Burst:     cfg.RateLimit.Burst,
	}
	if cfg.Auth.Enabled {
		// Secret is auto-generated on first use.
		opts.JWTSecret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			return fmt.Errorf("getting JWT secret: %w", err)
		}
		slog.Info("write authentication enabled")
	}

	// Set up routers.
	apiRouter := api.NewRouter(database, opts)
	webRouter, err := web.NewRouter(database, cfg.Auth.Enabled)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newHandler(apiRouter, webRouter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

func cmdSeed(cfg *config.Config, args []string) error {
	closeLog, err := parseFlags("seed", cfg, args, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := db.Seed(context.Background(), database)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d reference rows.\n", n)
	return nil
}

func cmdToken(cfg *config.Config, args []string) error {
	var subject string
	var ttl time.Duration
	closeLog, err := parseFlags("token", cfg, args, func(fs *flag.FlagSet) {
		fs.StringVar(&subject, "subject", "zalogactl", "")
		fs.StringVar(&subject, "s", "zalogactl", "")
		fs.DurationVar(&ttl, "ttl", auth.TokenExpiry, "")
	})
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	secret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}
	token, err := auth.GenerateToken(secret, subject, auth.ScopeWrite, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	if !cfg.Auth.Enabled {
		fmt.Fprintln(os.Stderr, "Note: the server only checks tokens when started with -auth.")
	}
	return nil
}
