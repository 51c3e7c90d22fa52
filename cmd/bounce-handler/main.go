// Package main is the entry point for the FBL bounce handler.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksami007/bouncehandler/internal/config"
	"github.com/ksami007/bouncehandler/internal/handler"
	"github.com/ksami007/bouncehandler/internal/source"
	"github.com/ksami007/bouncehandler/internal/source/eml"
	imapsource "github.com/ksami007/bouncehandler/internal/source/imap"
	mboxsource "github.com/ksami007/bouncehandler/internal/source/mbox"
	"github.com/ksami007/bouncehandler/internal/suppress"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, cancelling batch", "signal", sig)
		cancel()
	}()

	// Open the message source
	src := selectSource(cfg)
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("failed to close source", "error", err)
		}
	}()

	// Optional SES suppression
	var suppressor handler.Suppressor
	if cfg.SESConfigured() {
		slog.Info("SES suppression enabled", "region", cfg.SES.Region)
		s, err := suppress.New(ctx, suppress.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
		if err != nil {
			slog.Error("failed to create SES suppressor", "error", err)
			os.Exit(1)
		}
		suppressor = s
	}

	h := handler.New(handler.Config{
		Source:       src,
		Mode:         handler.ProcessMode(cfg.Process.Mode),
		MaxMessages:  cfg.Process.MaxMessages,
		Concurrency:  cfg.Process.Concurrency,
		Suppressor:   suppressor,
		ShowProgress: cfg.Process.ShowProgress,
	})

	slog.Info("starting bounce-handler",
		"source", src.Name(),
		"mode", cfg.Process.Mode,
		"max_messages", cfg.Process.MaxMessages,
	)

	result, err := h.Process(ctx)
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}

	slog.Info("batch complete",
		"total", result.Counter.Total,
		"fetched", result.Counter.Fetched,
		"processed", result.Counter.Processed,
		"moved", result.Counter.Moved,
		"deleted", result.Counter.Deleted,
	)

	for _, mail := range result.Mails {
		for _, recipient := range mail.Recipients {
			slog.Info("feedback-loop report",
				"token", mail.Token,
				"subject", mail.Subject,
				"recipient", recipient.Email,
			)
		}
	}
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// selectSource opens the message source named by the configuration.
func selectSource(cfg *config.Config) source.Source {
	switch cfg.Source.Type {
	case "eml":
		if cfg.Source.EmlFolder == "" {
			slog.Error("eml source selected but SOURCE_EML_FOLDER is required")
			os.Exit(1)
		}
		src, err := eml.Open(cfg.Source.EmlFolder)
		if err != nil {
			slog.Error("failed to open eml folder", "error", err)
			os.Exit(1)
		}
		slog.Info("using eml folder source", "folder", cfg.Source.EmlFolder)
		return src

	case "mbox":
		if cfg.Source.MboxPath == "" {
			slog.Error("mbox source selected but SOURCE_MBOX_PATH is required")
			os.Exit(1)
		}
		src, err := mboxsource.Open(cfg.Source.MboxPath)
		if err != nil {
			slog.Error("failed to open mbox file", "error", err)
			os.Exit(1)
		}
		slog.Info("using mbox source", "path", cfg.Source.MboxPath)
		return src

	case "imap":
		src, err := imapsource.Dial(imapsource.Config{
			Host:         cfg.Mailbox.Host,
			Port:         cfg.Mailbox.Port,
			Username:     cfg.Mailbox.Username,
			Password:     cfg.Mailbox.Password,
			Security:     cfg.Mailbox.Security,
			ValidateCert: cfg.Mailbox.ValidateCert,
			Mailbox:      cfg.Mailbox.Name,
			Search:       cfg.Mailbox.Search,
		})
		if err != nil {
			slog.Error("failed to connect to mailbox", "error", err)
			os.Exit(1)
		}
		slog.Info("using imap source",
			"host", cfg.Mailbox.Host,
			"mailbox", cfg.Mailbox.Name,
			"search", cfg.Mailbox.Search,
		)
		return src

	default:
		slog.Error("unknown source type", "type", cfg.Source.Type)
		os.Exit(1)
		return nil
	}
}
