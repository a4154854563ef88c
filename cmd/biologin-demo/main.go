// Command biologin-demo drives the login screens from a terminal against the
// sandbox account and biometric services.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/internal/logging"
	"github.com/MrEthical07/goBioLogin/metrics/export/prometheus"
	"github.com/MrEthical07/goBioLogin/sandbox"
	"github.com/MrEthical07/goBioLogin/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/peterh/liner"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "TOML config file; BIOLOGIN_* env vars override it")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "biologin-demo:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadDemoConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := connectRedis(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	store, closeStore, err := openStore(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer closeStore()

	account, err := sandbox.NewAccountService(client, cfg.Sandbox, nil, func(email, cc, code string) {
		fmt.Printf("  [sandbox mail] code for +%s %s: %s\n", cc, email, code)
	})
	if err != nil {
		return err
	}
	device := sandbox.NewBiometricDevice(client, account)

	builder := goBioLogin.New().
		WithConfig(cfg.Engine).
		WithSessionStore(store).
		WithAccountSDK(account).
		WithBiometricSDK(device).
		WithLogger(logger)
	switch cfg.Audit {
	case "log":
		builder.WithAuditSink(goBioLogin.NewSlogSink(logger, slog.LevelInfo))
	case "json":
		builder.WithAuditSink(goBioLogin.NewJSONWriterSink(os.Stderr))
	}
	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	if cfg.Metrics != "" {
		srv := &http.Server{Addr: cfg.Metrics, Handler: prometheus.NewExporter(engine).Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", cfg.Metrics)
	}

	r := newREPL(cfg, engine, account, device, logger, os.Stdout)
	if err := r.start(ctx); err != nil {
		return err
	}
	return readLoop(ctx, r, cfg.History)
}

func connectRedis(cfg redisConfig, logger *slog.Logger) (redis.UniversalClient, func(), error) {
	addr := cfg.Addr
	var mr *miniredis.Miniredis
	if addr == "" {
		var err error
		mr, err = miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		addr = mr.Addr()
		logger.Info("using in-process miniredis", "addr", addr)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cleanup := func() {
		_ = client.Close()
		if mr != nil {
			mr.Close()
		}
	}
	return client, cleanup, nil
}

func openStore(ctx context.Context, cfg demoConfig, client redis.UniversalClient) (session.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		return session.NewRedisStore(client, cfg.Store.Prefix, cfg.Profile), func() {}, nil
	case "sqlite":
		s, err := session.OpenSQLiteStore(ctx, cfg.Store.SQLitePath, cfg.Profile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}

func readLoop(ctx context.Context, r *repl, historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
		defer saveHistory(line, historyPath)
	}

	r.help()
	for ctx.Err() == nil {
		input, err := line.Prompt(r.prompt())
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		switch err := r.exec(ctx, input); {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintln(r.out, "  error:", err)
		}
	}
	return nil
}

func saveHistory(line *liner.State, path string) {
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o700)
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
