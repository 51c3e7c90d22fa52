// Package handler runs the classification pipeline over a batch of
// messages from a source and applies the configured disposition.
package handler

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ksami007/bouncehandler/internal/bounce"
	"github.com/ksami007/bouncehandler/internal/fbl"
	"github.com/ksami007/bouncehandler/internal/source"
)

// ProcessMode controls what happens to a message after classification.
type ProcessMode string

const (
	// ModeNeutral leaves classified messages where they are.
	ModeNeutral ProcessMode = "neutral"

	// ModeMove relocates classified messages into the source's
	// feedback-loop folder.
	ModeMove ProcessMode = "move"

	// ModeDelete removes classified messages from the source.
	ModeDelete ProcessMode = "delete"
)

// Suppressor blocks future delivery to an address that generated an abuse
// report.
type Suppressor interface {
	Suppress(ctx context.Context, address string) error
}

// Config holds the configuration for a batch Handler.
type Config struct {
	// Source supplies raw messages and carries out dispositions.
	Source source.Source

	// Mode selects the disposition for classified messages.
	// Defaults to ModeNeutral.
	Mode ProcessMode

	// MaxMessages limits how many messages one batch fetches.
	// 0 means no limit.
	MaxMessages int

	// Concurrency bounds how many messages are parsed in parallel.
	// Values below 1 mean sequential. The pipeline is pure, so results
	// are re-sorted to fetch order regardless.
	Concurrency int

	// Suppressor, if set, is called with every resolved recipient
	// address.
	Suppressor Suppressor

	// ShowProgress enables per-message progress logging.
	ShowProgress bool
}

// Handler processes one batch of messages.
type Handler struct {
	cfg Config
}

// New creates a Handler with the given configuration.
func New(cfg Config) *Handler {
	if cfg.Mode == "" {
		cfg.Mode = ModeNeutral
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Handler{cfg: cfg}
}

// Process fetches a batch from the source, classifies every message, and
// applies the disposition to each classified mail. Classification runs
// with bounded concurrency; the result keeps the source's enumeration
// order so downstream counters stay deterministic. A message that fails
// classification is skipped, never an error; disposition failures are
// logged and skipped so one stuck message cannot stall the batch.
func (h *Handler) Process(ctx context.Context) (*bounce.Result, error) {
	messages, total, err := h.cfg.Source.Fetch(ctx, h.cfg.MaxMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := &bounce.Result{}
	result.Counter.Total = total
	result.Counter.Fetched = len(messages)

	classified := make([]*bounce.Mail, len(messages))

	var g errgroup.Group
	g.SetLimit(h.cfg.Concurrency)
	for i, msg := range messages {
		i, msg := i, msg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			classified[i] = fbl.Process(msg.Token, msg.Raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, mail := range classified {
		if h.cfg.ShowProgress {
			slog.Info("processing messages",
				"current", i+1,
				"total", len(messages),
			)
		}
		if mail == nil {
			continue
		}

		result.AddMail(mail)
		result.Counter.Processed++

		h.dispose(ctx, mail, &result.Counter)
		h.suppress(ctx, mail)
	}

	return result, nil
}

// dispose applies the configured process mode to one classified mail.
func (h *Handler) dispose(ctx context.Context, mail *bounce.Mail, counter *bounce.Counter) {
	switch h.cfg.Mode {
	case ModeMove:
		if err := h.cfg.Source.Move(ctx, mail.Token); err != nil {
			slog.Warn("failed to move message",
				"token", mail.Token,
				"error", err,
			)
			return
		}
		counter.Moved++
	case ModeDelete:
		if err := h.cfg.Source.Delete(ctx, mail.Token); err != nil {
			slog.Warn("failed to delete message",
				"token", mail.Token,
				"error", err,
			)
			return
		}
		counter.Deleted++
	}
}

// suppress forwards every resolved recipient to the suppressor, if one is
// configured.
func (h *Handler) suppress(ctx context.Context, mail *bounce.Mail) {
	if h.cfg.Suppressor == nil {
		return
	}
	for _, recipient := range mail.Recipients {
		if recipient.Email == "" {
			continue
		}
		if err := h.cfg.Suppressor.Suppress(ctx, recipient.Email); err != nil {
			slog.Warn("failed to suppress recipient",
				"token", mail.Token,
				"email", recipient.Email,
				"error", err,
			)
		}
	}
}
