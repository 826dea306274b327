package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealspy/internal/models"
)

func createTestUser(t *testing.T, db *DB, uid string, token *string) *models.User {
	t.Helper()
	user := &models.User{
		UID:      uid,
		Email:    uid + "@example.com",
		Name:     "Test " + uid,
		FCMToken: token,
	}
	if err := db.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("UpsertUser(%q) error = %v", uid, err)
	}
	return user
}

func TestWatchlistLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, db, "watcher-1", nil)

	product, err := db.GetOrCreateProductByName(ctx, "Samsung Galaxy S24")
	if err != nil {
		t.Fatalf("GetOrCreateProductByName() error = %v", err)
	}

	endDate := time.Now().AddDate(0, 0, 30).Truncate(24 * time.Hour)
	if err := db.AddToWatchlist(ctx, "watcher-1", product.ID, &endDate); err != nil {
		t.Fatalf("AddToWatchlist() error = %v", err)
	}

	// Duplicate add is a conflict
	if err := db.AddToWatchlist(ctx, "watcher-1", product.ID, nil); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("duplicate add error = %v, want ErrAlreadyWatching", err)
	}

	items, err := db.ListWatchlist(ctx, "watcher-1")
	if err != nil {
		t.Fatalf("ListWatchlist() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("watchlist has %d items, want 1", len(items))
	}
	if items[0].Product.Name != "Samsung Galaxy S24" {
		t.Errorf("item name = %q", items[0].Product.Name)
	}
	if items[0].WatchEndDate == nil {
		t.Error("watch end date not stored")
	}

	if err := db.RemoveFromWatchlist(ctx, "watcher-1", "Samsung Galaxy S24"); err != nil {
		t.Fatalf("RemoveFromWatchlist() error = %v", err)
	}
	if err := db.RemoveFromWatchlist(ctx, "watcher-1", "Samsung Galaxy S24"); !errors.Is(err, ErrWatchNotFound) {
		t.Errorf("second remove error = %v, want ErrWatchNotFound", err)
	}
}

func TestFindWatchersByProductID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	tokenA := "fcm-token-a"
	createTestUser(t, db, "watcher-a", &tokenA)
	createTestUser(t, db, "watcher-b", nil)
	createTestUser(t, db, "bystander", nil)

	product, err := db.GetOrCreateProductByName(ctx, "Boat Airdopes 141")
	if err != nil {
		t.Fatalf("GetOrCreateProductByName() error = %v", err)
	}
	for _, uid := range []string{"watcher-a", "watcher-b"} {
		if err := db.AddToWatchlist(ctx, uid, product.ID, nil); err != nil {
			t.Fatalf("AddToWatchlist(%q) error = %v", uid, err)
		}
	}

	watchers, err := db.FindWatchersByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindWatchersByProductID() error = %v", err)
	}
	if len(watchers) != 2 {
		t.Fatalf("found %d watchers, want 2", len(watchers))
	}

	withToken := 0
	for _, w := range watchers {
		if w.UID == "bystander" {
			t.Errorf("non-watcher returned: %q", w.UID)
		}
		if w.HasPushToken() {
			withToken++
		}
	}
	if withToken != 1 {
		t.Errorf("%d watchers with token, want 1", withToken)
	}
}

func TestDeleteUserCascadesWatchlist(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, db, "leaver", nil)

	product, err := db.GetOrCreateProductByName(ctx, "Dyson V15")
	if err != nil {
		t.Fatalf("GetOrCreateProductByName() error = %v", err)
	}
	if err := db.AddToWatchlist(ctx, "leaver", product.ID, nil); err != nil {
		t.Fatalf("AddToWatchlist() error = %v", err)
	}

	if err := db.DeleteUser(ctx, "leaver"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	watchers, err := db.FindWatchersByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindWatchersByProductID() error = %v", err)
	}
	if len(watchers) != 0 {
		t.Errorf("watchlist rows survived user deletion: %d", len(watchers))
	}
}

func TestSaveForLaterLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, db, "saver", nil)

	product, err := db.GetOrCreateProductByName(ctx, "LG C3 OLED")
	if err != nil {
		t.Fatalf("GetOrCreateProductByName() error = %v", err)
	}

	if err := db.AddToSaveForLater(ctx, "saver", product.ID); err != nil {
		t.Fatalf("AddToSaveForLater() error = %v", err)
	}
	if err := db.AddToSaveForLater(ctx, "saver", product.ID); !errors.Is(err, ErrAlreadySaved) {
		t.Errorf("duplicate save error = %v, want ErrAlreadySaved", err)
	}

	items, err := db.ListSaveForLater(ctx, "saver")
	if err != nil {
		t.Fatalf("ListSaveForLater() error = %v", err)
	}
	if len(items) != 1 || items[0].Product.Name != "LG C3 OLED" {
		t.Fatalf("saved items = %+v, want one LG C3 OLED", items)
	}

	if err := db.RemoveFromSaveForLater(ctx, "saver", "LG C3 OLED"); err != nil {
		t.Fatalf("RemoveFromSaveForLater() error = %v", err)
	}
	if err := db.RemoveFromSaveForLater(ctx, "saver", "LG C3 OLED"); !errors.Is(err, ErrSavedNotFound) {
		t.Errorf("second remove error = %v, want ErrSavedNotFound", err)
	}
}
