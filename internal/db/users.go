package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"dealspy/internal/models"
)

// UpsertUser creates a user on first sign-in or refreshes profile fields on
// subsequent ones. An incoming nil FCM token never clears a stored one; the
// mobile client only sends the token when it has a fresh registration.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uid, email, name, fcm_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			fcm_token = COALESCE(EXCLUDED.fcm_token, users.fcm_token)
		RETURNING fcm_token, created_at
	`
	return d.Pool.QueryRow(ctx, query, user.UID, user.Email, user.Name, user.FCMToken).
		Scan(&user.FCMToken, &user.CreatedAt)
}

// GetUserByUID returns a user by their identity-provider subject id.
func (d *DB) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT uid, email, name, fcm_token, created_at FROM users WHERE uid = $1`

	var user models.User
	err := d.Pool.QueryRow(ctx, query, uid).
		Scan(&user.UID, &user.Email, &user.Name, &user.FCMToken, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFCMToken replaces the stored device push token for a user.
func (d *DB) UpdateFCMToken(ctx context.Context, uid, token string) error {
	tag, err := d.Pool.Exec(ctx, `UPDATE users SET fcm_token = $2 WHERE uid = $1`, uid, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user and, via cascade, their watchlist and
// save-for-later entries.
func (d *DB) DeleteUser(ctx context.Context, uid string) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
