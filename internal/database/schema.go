package database

// schema contains all table definitions. Each statement is idempotent (CREATE IF NOT EXISTS).
const schema = `
CREATE TABLE IF NOT EXISTS download_tokens (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    client_identifier TEXT    NOT NULL,
    client_name       TEXT    NOT NULL DEFAULT '',
    token             TEXT    NOT NULL UNIQUE,
    created_at        INTEGER NOT NULL DEFAULT (strftime('%s','now')),
    expires_at        INTEGER NOT NULL,
    is_active         INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_download_tokens_identifier
    ON download_tokens (client_identifier);

CREATE TABLE IF NOT EXISTS audit_log (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    action            TEXT    NOT NULL,
    client_identifier TEXT    NOT NULL,
    performed_by      TEXT    NOT NULL DEFAULT '',
    details           TEXT,
    created_at        INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
CREATE INDEX IF NOT EXISTS idx_audit_log_created
    ON audit_log (created_at);
`
