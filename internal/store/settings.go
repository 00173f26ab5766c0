package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// settingJWTSecret is the settings row holding the token signing key.
const settingJWTSecret = "jwt_secret"

// GetSetting returns a setting's value, or ErrNotFound.
func GetSetting(ctx context.Context, db *sql.DB, name string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", name, err)
	}
	return value, nil
}

// GetJWTSecret retrieves the token signing secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// A concurrent first start may lose the insert; the stored value wins.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	secret, err := GetSetting(ctx, db, settingJWTSecret)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, insertErr := db.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)`,
		settingJWTSecret, candidate,
	)

	// Always read back (either our insert or the existing value).
	secret, err = GetSetting(ctx, db, settingJWTSecret)
	if err != nil {
		if insertErr != nil {
			return "", fmt.Errorf("storing jwt secret: %w", insertErr)
		}
		return "", err
	}
	return secret, nil
}
