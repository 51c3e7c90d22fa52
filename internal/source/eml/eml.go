// Package eml implements a Source over a folder of .eml files.
package eml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ksami007/bouncehandler/internal/source"
)

// moveSubfolder is the subfolder classified messages are moved into.
const moveSubfolder = "fbl"

// Source enumerates .eml files in a local folder. The file name is the
// message token.
type Source struct {
	folder string
	files  []string
}

// Open scans the folder for .eml files. It returns an error if the folder
// cannot be read or contains no .eml files.
func Open(folder string) (*Source, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to open eml folder %s: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".eml") {
			continue
		}
		files = append(files, entry.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no eml file found in %s", folder)
	}

	// Deterministic enumeration order.
	sort.Strings(files)

	return &Source{folder: folder, files: files}, nil
}

// Fetch reads up to max of the scanned files.
func (s *Source) Fetch(ctx context.Context, max int) ([]source.Message, int, error) {
	total := len(s.files)

	files := s.files
	if max > 0 && len(files) > max {
		files = files[:max]
	}

	messages := make([]source.Message, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		content, err := os.ReadFile(filepath.Join(s.folder, name))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read eml file %s: %w", name, err)
		}
		messages = append(messages, source.Message{Token: name, Raw: string(content)})
	}

	return messages, total, nil
}

// Move renames the file into the fbl subfolder, creating it if needed.
func (s *Source) Move(_ context.Context, token string) error {
	dest := filepath.Join(s.folder, moveSubfolder)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create move folder: %w", err)
	}
	if err := os.Rename(filepath.Join(s.folder, token), filepath.Join(dest, token)); err != nil {
		return fmt.Errorf("failed to move %s: %w", token, err)
	}
	return nil
}

// Delete removes the file.
func (s *Source) Delete(_ context.Context, token string) error {
	if err := os.Remove(filepath.Join(s.folder, token)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", token, err)
	}
	return nil
}

// Close is a no-op for the file source.
func (s *Source) Close() error {
	return nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return "eml"
}
