package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/erazemk/freshrack/internal/expiry"
)

const nearlyExpiringDaysKey = "nearly_expiring_days"

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// GetExpiryPolicy returns the stored classification policy, or the default
// policy if none has been stored.
func GetExpiryPolicy(ctx context.Context, db *sql.DB) (expiry.Policy, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, nearlyExpiringDaysKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return expiry.DefaultPolicy(), nil
	}
	if err != nil {
		return expiry.Policy{}, fmt.Errorf("querying expiry policy: %w", err)
	}

	days, err := strconv.Atoi(value)
	if err != nil {
		return expiry.Policy{}, fmt.Errorf("parsing stored expiry policy %q: %w", value, err)
	}
	p := expiry.Policy{NearlyExpiringDays: days}
	if err := p.Validate(); err != nil {
		return expiry.Policy{}, fmt.Errorf("stored expiry policy: %w", err)
	}
	return p, nil
}

// SetExpiryPolicy validates and stores the classification policy.
func SetExpiryPolicy(ctx context.Context, db *sql.DB, p expiry.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		nearlyExpiringDaysKey, strconv.Itoa(p.NearlyExpiringDays),
	)
	if err != nil {
		return fmt.Errorf("storing expiry policy: %w", err)
	}
	return nil
}
