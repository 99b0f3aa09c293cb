package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit_CreatesSchemaAndVersion(t *testing.T) {
	tmpDir := t.TempDir()

	database, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	version, err := GetUserVersion(database)
	if err != nil {
		t.Fatalf("GetUserVersion failed: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}

	var name string
	err = database.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='resolutions'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("resolutions table missing: %v", err)
	}
}

func TestInit_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	first, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	first.Close()

	second, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer second.Close()

	if _, err := second.Exec(
		"INSERT INTO resolutions (source_hash, model, prompt_version, response, created_at) VALUES (?, ?, ?, ?, ?)",
		"h", "m", 1, "{}", 0,
	); err != nil {
		t.Errorf("insert after re-init failed: %v", err)
	}
}

func TestInit_BadBaseDir(t *testing.T) {
	// A file where the base directory should be.
	tmpDir := t.TempDir()
	blocked := filepath.Join(tmpDir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := Init(blocked); err == nil {
		t.Error("Init should fail when baseDir is a file")
	}
}
