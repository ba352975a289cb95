package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/internal/config"
	"github.com/DoyleJ11/open-stage-timer/internal/httpapi"
	"github.com/DoyleJ11/open-stage-timer/internal/hub"
	"github.com/DoyleJ11/open-stage-timer/internal/logging"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
	"github.com/DoyleJ11/open-stage-timer/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cmd := &cli.Command{
		Name:  "open-stage-timer",
		Usage: "Real-time stage timer, rundown and message server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Sources: cli.EnvVars("PORT"),
				Value:   config.DefaultPort,
			},
			&cli.StringFlag{
				Name:    "allowed-origins",
				Usage:   "comma separated origins allowed for HTTP and WebSocket clients",
				Sources: cli.EnvVars("ALLOWED_ORIGINS"),
				Value:   config.DefaultAllowedOrigins,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   config.DefaultLogLevel,
			},
			&cli.StringFlag{
				Name:    "rundown-file",
				Usage:   "YAML file with the rundown to load at start",
				Sources: cli.EnvVars("RUNDOWN_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Config{
				Port:           cmd.String("port"),
				AllowedOrigins: config.ParseOrigins(cmd.String("allowed-origins")),
				LogLevel:       cmd.String("log-level"),
				RundownFile:    cmd.String("rundown-file"),
			}
			return run(ctx, cfg)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	initial, err := initialState(cfg.RundownFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, logger)
	s := session.NewSession(ctx, initial, h, session.Options{Logger: logger})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.SetupRoutes(s, logger, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", server.Addr),
			zap.Strings("allowed_origins", cfg.AllowedOrigins),
			zap.Int("rundown_items", len(initial.Rundown.Items)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initialState(path string) (session.State, error) {
	st := session.NewState()
	if path == "" {
		return st, nil
	}
	doc, err := rundown.LoadFile(path)
	if err != nil {
		return st, fmt.Errorf("load rundown: %w", err)
	}
	st.Rundown = doc
	return st, nil
}
