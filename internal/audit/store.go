// Package audit records administrative actions (peer creation, deletion,
// toggling, link activation) in the database.
package audit

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Recognised actions.
const (
	ActionCreate   = "create"
	ActionDelete   = "delete"
	ActionEnable   = "enable"
	ActionDisable  = "disable"
	ActionActivate = "activate"
)

// Entry is one audit record.
type Entry struct {
	ID               int64          `json:"id"`
	Action           string         `json:"action"`
	ClientIdentifier string         `json:"clientIdentifier"`
	PerformedBy      string         `json:"performedBy,omitempty"`
	Details          map[string]any `json:"details,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Store reads and writes audit entries.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record appends an audit entry. Details may be nil.
func (s *Store) Record(action, clientIdentifier, performedBy string, details map[string]any) error {
	if action == "" || clientIdentifier == "" {
		return errors.New("action and client identifier are required")
	}
	var detailsJSON any
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = string(raw)
	}
	_, err := s.db.Exec(
		`INSERT INTO audit_log (action, client_identifier, performed_by, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		action, clientIdentifier, performedBy, detailsJSON, time.Now().UTC().Unix(),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, action, client_identifier, performed_by, details, created_at
		 FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var details sql.NullString
		var created int64
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.ClientIdentifier, &entry.PerformedBy, &details, &created); err != nil {
			return nil, err
		}
		if details.Valid && details.String != "" {
			// Unreadable details are dropped rather than failing the listing.
			_ = json.Unmarshal([]byte(details.String), &entry.Details)
		}
		entry.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
