package syncmap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", store.Len())
	}
}

func TestPutPersistsAndReloads(t *testing.T) {
	root := t.TempDir()

	store, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	record := Record{ID: "42", MTime: 1700000000, URL: "https://example.edu/files/42"}
	if err := store.Put("module/intro.md", record); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reloaded, err := Open(root, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reloaded.Get("module/intro.md")
	if !ok {
		t.Fatalf("record missing after reload")
	}
	if got.ID != record.ID || got.MTime != record.MTime || got.URL != record.URL {
		t.Fatalf("record mismatch: %#v", got)
	}
}

func TestLegacyBareEntriesUpgrade(t *testing.T) {
	root := t.TempDir()
	legacy := map[string]any{
		"pages/old.md":   "77",
		"pages/older.md": 88,
		"pages/new.md":   map[string]any{"id": "99", "mtime": 123},
	}
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if rec, ok := store.Get("pages/old.md"); !ok || rec.ID != "77" {
		t.Fatalf("string legacy entry not upgraded: %#v", rec)
	}
	if rec, ok := store.Get("pages/older.md"); !ok || rec.ID != "88" {
		t.Fatalf("numeric legacy entry not upgraded: %#v", rec)
	}
	if rec, ok := store.Get("pages/new.md"); !ok || rec.ID != "99" || rec.MTime != 123 {
		t.Fatalf("structured entry mangled: %#v", rec)
	}
}

func TestOnePathOneRecord(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.Put("quiz.md", Record{ID: "1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put("./quiz.md", Record{ID: "2"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected a single record for the same path, got %d", store.Len())
	}
	rec, _ := store.Get("quiz.md")
	if rec.ID != "2" {
		t.Fatalf("expected last write to win, got %#v", rec)
	}
}

func TestRelNormalizesSeparators(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rel, err := store.Rel(filepath.Join(root, "module", "intro.md"))
	if err != nil {
		t.Fatalf("Rel: %v", err)
	}
	if rel != "module/intro.md" {
		t.Fatalf("unexpected key %q", rel)
	}
}
