// Package tokens persists time-limited public download tokens for peer
// client configs. A token grants unauthenticated access to exactly one
// peer's config until it expires or is deactivated.
package tokens

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"time"
)

// DefaultTTL is how long a freshly minted download link stays valid.
const DefaultTTL = 60 * time.Minute

// Token is one row of the download_tokens table.
type Token struct {
	ID               int64     `json:"id"`
	ClientIdentifier string    `json:"clientIdentifier"`
	ClientName       string    `json:"clientName"`
	Token            string    `json:"token"`
	CreatedAt        time.Time `json:"createdAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
	IsActive         bool      `json:"isActive"`
}

// Expired reports whether the token's validity window has passed.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Store reads and writes download tokens.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create mints a new active token for the given peer. A non-positive ttl
// falls back to DefaultTTL.
func (s *Store) Create(clientIdentifier, clientName string, ttl time.Duration) (*Token, error) {
	if clientIdentifier == "" {
		return nil, errors.New("client identifier is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	value, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	expires := now.Add(ttl)
	res, err := s.db.Exec(
		`INSERT INTO download_tokens (client_identifier, client_name, token, created_at, expires_at, is_active)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		clientIdentifier, clientName, value, now.Unix(), expires.Unix(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Token{
		ID:               id,
		ClientIdentifier: clientIdentifier,
		ClientName:       clientName,
		Token:            value,
		CreatedAt:        now,
		ExpiresAt:        expires,
		IsActive:         true,
	}, nil
}

// GetActive returns the active token with the given value, or nil when no
// such token exists. Expiry is not checked here; callers decide whether an
// expired-but-active token should be deactivated or rejected.
func (s *Store) GetActive(value string) (*Token, error) {
	row := s.db.QueryRow(
		`SELECT id, client_identifier, client_name, token, created_at, expires_at, is_active
		 FROM download_tokens WHERE token = ? AND is_active = 1`, value)
	token, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return token, err
}

// Deactivate marks a token inactive.
func (s *Store) Deactivate(id int64) error {
	_, err := s.db.Exec(`UPDATE download_tokens SET is_active = 0 WHERE id = ?`, id)
	return err
}

// DeactivateExpired flips every active token past its expiry to inactive.
// The peers page calls this on every listing so stale links die promptly.
func (s *Store) DeactivateExpired(now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE download_tokens SET is_active = 0 WHERE is_active = 1 AND expires_at <= ?`,
		now.UTC().Unix(),
	)
	return err
}

// ActiveByIdentifier returns the newest still-valid token per peer, keyed by
// client identifier, for decorating the peer listing with download links.
func (s *Store) ActiveByIdentifier(now time.Time) (map[string]*Token, error) {
	rows, err := s.db.Query(
		`SELECT id, client_identifier, client_name, token, created_at, expires_at, is_active
		 FROM download_tokens WHERE is_active = 1 AND expires_at > ?
		 ORDER BY created_at DESC`, now.UTC().Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*Token)
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		if _, ok := result[token.ClientIdentifier]; !ok {
			result[token.ClientIdentifier] = token
		}
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*Token, error) {
	var token Token
	var created, expires int64
	var active int
	err := row.Scan(&token.ID, &token.ClientIdentifier, &token.ClientName, &token.Token, &created, &expires, &active)
	if err != nil {
		return nil, err
	}
	token.CreatedAt = time.Unix(created, 0).UTC()
	token.ExpiresAt = time.Unix(expires, 0).UTC()
	token.IsActive = active != 0
	return &token, nil
}

// generateToken returns 48 random bytes as URL-safe base64.
func generateToken() (string, error) {
	raw := make([]byte, 48)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
