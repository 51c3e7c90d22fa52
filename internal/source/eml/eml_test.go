package eml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, folder, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestOpenScansEmlFiles(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	writeFile(t, folder, "b.eml", "Subject: two\r\n\r\nbody")
	writeFile(t, folder, "a.eml", "Subject: one\r\n\r\nbody")
	writeFile(t, folder, "notes.txt", "not a message")

	src, err := Open(folder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, total, err := src.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("total: got %d, want 2", total)
	}
	if len(messages) != 2 {
		t.Fatalf("messages: got %d, want 2", len(messages))
	}
	if messages[0].Token != "a.eml" || messages[1].Token != "b.eml" {
		t.Errorf("tokens: got %q, %q; want a.eml, b.eml", messages[0].Token, messages[1].Token)
	}
	if messages[0].Raw != "Subject: one\r\n\r\nbody" {
		t.Errorf("Raw: got %q", messages[0].Raw)
	}
}

func TestOpenEmptyFolder(t *testing.T) {
	t.Parallel()

	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error for folder without eml files, got nil")
	}
}

func TestOpenMissingFolder(t *testing.T) {
	t.Parallel()

	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing folder, got nil")
	}
}

func TestFetchHonorsMax(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	writeFile(t, folder, "a.eml", "a")
	writeFile(t, folder, "b.eml", "b")
	writeFile(t, folder, "c.eml", "c")

	src, err := Open(folder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, total, err := src.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
	if len(messages) != 2 {
		t.Errorf("messages: got %d, want 2", len(messages))
	}
}

func TestMoveCreatesSubfolder(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	writeFile(t, folder, "a.eml", "a")

	src, err := Open(folder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := src.Move(context.Background(), "a.eml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(folder, "fbl", "a.eml")); err != nil {
		t.Errorf("moved file not found: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "a.eml")); !os.IsNotExist(err) {
		t.Error("original file should be gone after move")
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	writeFile(t, folder, "a.eml", "a")

	src, err := Open(folder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := src.Delete(context.Background(), "a.eml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "a.eml")); !os.IsNotExist(err) {
		t.Error("file should be gone after delete")
	}
}
