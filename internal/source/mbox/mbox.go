// Package mbox implements a read-only Source over a local mbox file.
package mbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/emersion/go-mbox"

	"github.com/ksami007/bouncehandler/internal/source"
)

// ErrReadOnly is returned by disposition operations: an mbox file is
// consumed in place, messages are never moved or deleted.
var ErrReadOnly = errors.New("mbox source is read-only")

// Source enumerates messages in a local mbox file. Tokens are 1-based
// sequence numbers, matching the order of messages in the file.
type Source struct {
	path string
}

// Open validates that the mbox file exists.
func Open(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbox file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("mbox path %s is a directory", path)
	}
	return &Source{path: path}, nil
}

// Fetch reads the mbox file and returns up to max messages. The whole
// file is always scanned so the returned total reflects every message it
// holds.
func (s *Source) Fetch(ctx context.Context, max int) ([]source.Message, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open mbox file: %w", err)
	}
	defer f.Close()

	var messages []source.Message
	total := 0

	reader := mbox.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		msg, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read mbox message: %w", err)
		}

		total++
		if max > 0 && len(messages) >= max {
			continue
		}

		raw, err := io.ReadAll(msg)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read mbox message %d: %w", total, err)
		}
		messages = append(messages, source.Message{
			Token: strconv.Itoa(total),
			Raw:   string(raw),
		})
	}

	return messages, total, nil
}

// Move is not supported for mbox files.
func (s *Source) Move(_ context.Context, _ string) error {
	return ErrReadOnly
}

// Delete is not supported for mbox files.
func (s *Source) Delete(_ context.Context, _ string) error {
	return ErrReadOnly
}

// Close is a no-op; the file handle only lives for the duration of Fetch.
func (s *Source) Close() error {
	return nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return "mbox"
}
