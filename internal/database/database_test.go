package database

import (
	"testing"
	"time"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) error: %v", err)
	}
	defer db.Close()

	// Verify all expected tables exist.
	tables := []string{"download_tokens", "audit_log"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	// Running migrate a second time must not error.
	if err := migrate(db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestCleanup_PrunesStaleRows(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	longExpired := now.Add(-8 * 24 * time.Hour).Unix()
	recentExpired := now.Add(-1 * time.Hour).Unix()
	if _, err := db.Exec(
		`INSERT INTO download_tokens (client_identifier, token, expires_at) VALUES ('old', 't1', ?), ('fresh', 't2', ?)`,
		longExpired, recentExpired,
	); err != nil {
		t.Fatalf("insert tokens: %v", err)
	}
	oldAudit := now.Add(-100 * 24 * time.Hour).Unix()
	if _, err := db.Exec(
		`INSERT INTO audit_log (action, client_identifier, created_at) VALUES ('create', 'old', ?), ('create', 'fresh', ?)`,
		oldAudit, now.Unix(),
	); err != nil {
		t.Fatalf("insert audit: %v", err)
	}

	if err := cleanupBefore(db, now); err != nil {
		t.Fatalf("cleanupBefore: %v", err)
	}

	var tokens, audits int
	db.QueryRow("SELECT COUNT(*) FROM download_tokens").Scan(&tokens)
	db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&audits)
	if tokens != 1 {
		t.Errorf("expected 1 token to survive, got %d", tokens)
	}
	if audits != 1 {
		t.Errorf("expected 1 audit row to survive, got %d", audits)
	}
}
