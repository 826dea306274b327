package db

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertUserKeepsTokenOnNilUpdate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	token := "device-token-1"
	user := createTestUser(t, db, "sticky", &token)
	if user.FCMToken == nil || *user.FCMToken != token {
		t.Fatalf("token not stored: %v", user.FCMToken)
	}

	// Re-verify without a token; the stored one must survive.
	again := createTestUser(t, db, "sticky", nil)
	if again.FCMToken == nil || *again.FCMToken != token {
		t.Errorf("token after nil upsert = %v, want %q", again.FCMToken, token)
	}

	// A fresh token replaces the old one.
	newToken := "device-token-2"
	replaced := createTestUser(t, db, "sticky", &newToken)
	if replaced.FCMToken == nil || *replaced.FCMToken != newToken {
		t.Errorf("token after fresh upsert = %v, want %q", replaced.FCMToken, newToken)
	}
}

func TestUpdateFCMToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, db, "mobile", nil)

	if err := db.UpdateFCMToken(ctx, "mobile", "fresh-token"); err != nil {
		t.Fatalf("UpdateFCMToken() error = %v", err)
	}

	user, err := db.GetUserByUID(ctx, "mobile")
	if err != nil {
		t.Fatalf("GetUserByUID() error = %v", err)
	}
	if user.FCMToken == nil || *user.FCMToken != "fresh-token" {
		t.Errorf("token = %v, want fresh-token", user.FCMToken)
	}

	if err := db.UpdateFCMToken(ctx, "nobody", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown uid error = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserByUID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.GetUserByUID(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}
