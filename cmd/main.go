package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"papersum/internal/acquire"
	"papersum/internal/config"
	"papersum/internal/ratelimiter"
	"papersum/internal/scheduler"
	"papersum/internal/server"
	"papersum/internal/summarizer"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "papersum",
		Usage: "summarize academic papers from a URL or a PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file to load before reading the environment",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the web interface",
				Action: serveAction,
			},
			{
				Name:  "summarize",
				Usage: "summarize one paper and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "paper URL"},
					&cli.StringFlag{Name: "pdf", Usage: "path to a PDF file"},
					&cli.StringFlag{Name: "format", Value: formatText, Usage: "output format: text, yaml or json"},
				},
				Action: summarizeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed to run command",
			"error", err)

		os.Exit(1)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func newPipeline(cfg config.Config, log *slog.Logger) (*acquire.Acquirer, *summarizer.Orchestrator) {
	acq := acquire.New(acquire.Options{
		FetchTimeout:   cfg.FetchTimeout,
		TempDir:        cfg.TempDir,
		DetectLanguage: cfg.DetectLanguage,
	}, log)

	keys := summarizer.KeySource(cfg.APIKey)
	model := summarizer.NewOpenAIModel(cfg.OpenAIModel, cfg.OpenAIBaseURL, keys)
	s := summarizer.New(model, summarizer.Options{
		Timeout:        cfg.SummaryTimeout,
		MaxPromptChars: cfg.MaxPromptChars,
	}, log)

	return acq, summarizer.NewOrchestrator(s, keys, cfg.SummaryConcurrency, log)
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := newLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	if cfg.APIKey() == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so summaries will be refused until it is set",
			"envVar", config.OpenAIAPIKeyEnv)
	}

	acq, orch := newPipeline(cfg, log)
	limiter := ratelimiter.New(cfg.RateLimitInterval)

	sched := scheduler.New(ctx, scheduler.Options{
		Spec:    cfg.TempSweepSpec,
		TempDir: cfg.TempDir,
		Pattern: acquire.TempFilePattern,
		MaxAge:  cfg.TempMaxAge,
	}, limiter, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.TempSweepSpec)

		return err
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.TempSweepSpec,
		"tempDir", cfg.TempDir,
		"maxAge", cfg.TempMaxAge)

	srv := server.New(acq, orch, limiter, server.Options{
		Addr:              cfg.ListenAddr,
		UploadMaxBytes:    cfg.UploadMaxBytes,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return errors.New("server stopped unexpectedly")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Stop(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to stop server",
			"error", err)
	}

	log.InfoContext(shutdownCtx, "Server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}
