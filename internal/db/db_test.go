package db

import (
	"path/filepath"
	"testing"
)

func TestNew_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	tables := []string{"batches", "config", "_migrations"}
	for _, table := range tables {
		var name string
		err := database.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestNew_WALEnabled(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	var journalMode string
	err = database.Conn().QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("PRAGMA journal_mode error = %v", err)
	}

	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}
}

func TestNew_MarksInterruptedBatches(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = database.Conn().Exec(
		`INSERT INTO batches (id, mode, duration_seconds, duration_frames, status, created_at, updated_at)
		 VALUES ('b1', 'none', 1, 0, 'running', datetime('now'), datetime('now'))`)
	if err != nil {
		t.Fatalf("insert batch: %v", err)
	}
	database.Close()

	database, err = New(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer database.Close()

	var status, errMsg string
	if err := database.Conn().QueryRow("SELECT status, error FROM batches WHERE id='b1'").Scan(&status, &errMsg); err != nil {
		t.Fatalf("query batch: %v", err)
	}
	if status != "aborted" {
		t.Errorf("status = %s, want aborted", status)
	}
	if errMsg != "interrupted by restart" {
		t.Errorf("error = %s", errMsg)
	}
}
