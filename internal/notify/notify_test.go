package notify

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dealspy/internal/models"
)

type fakeWatcherStore struct {
	watchers []models.User
	err      error
}

func (f *fakeWatcherStore) FindWatchersByProductID(_ context.Context, _ uuid.UUID) ([]models.User, error) {
	return f.watchers, f.err
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	failOn string
}

func (f *fakeSender) Send(_ context.Context, token, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == f.failOn {
		return errors.New("device unregistered")
	}
	f.sent = append(f.sent, token)
	return nil
}

func (f *fakeSender) tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.sent...)
	sort.Strings(out)
	return out
}

func strptr(s string) *string { return &s }

func watcher(token *string) models.User {
	return models.User{UID: uuid.NewString(), FCMToken: token}
}

func TestNotifyPriceDrop_SendsToAllWatchers(t *testing.T) {
	store := &fakeWatcherStore{watchers: []models.User{
		watcher(strptr("token-a")),
		watcher(strptr("token-b")),
		watcher(strptr("token-c")),
	}}
	sender := &fakeSender{}
	n := New(store, sender, 2)

	n.NotifyPriceDrop(uuid.New(), "Sony WH-1000XM5", decimal.NewFromInt(19990))
	n.Close()

	got := sender.tokens()
	want := []string{"token-a", "token-b", "token-c"}
	if len(got) != len(want) {
		t.Fatalf("sent to %d devices, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotifyPriceDrop_SkipsWatchersWithoutToken(t *testing.T) {
	store := &fakeWatcherStore{watchers: []models.User{
		watcher(strptr("token-a")),
		watcher(nil),
		watcher(strptr("token-b")),
	}}
	sender := &fakeSender{}
	n := New(store, sender, 5)

	n.NotifyPriceDrop(uuid.New(), "Kindle Paperwhite", decimal.NewFromInt(11999))
	n.Close()

	if got := sender.tokens(); len(got) != 2 {
		t.Fatalf("sent to %d devices, want 2: %v", len(got), got)
	}
}

func TestNotifyPriceDrop_OneFailureDoesNotStopOthers(t *testing.T) {
	store := &fakeWatcherStore{watchers: []models.User{
		watcher(strptr("token-a")),
		watcher(strptr("token-bad")),
		watcher(strptr("token-c")),
	}}
	sender := &fakeSender{failOn: "token-bad"}
	n := New(store, sender, 1)

	n.NotifyPriceDrop(uuid.New(), "iPhone 15", decimal.NewFromInt(64999))
	n.Close()

	got := sender.tokens()
	if len(got) != 2 {
		t.Fatalf("sent to %d devices, want 2: %v", len(got), got)
	}
	for _, tok := range got {
		if tok == "token-bad" {
			t.Errorf("failing token recorded as sent")
		}
	}
}

func TestNotifyPriceDrop_NoWatchersIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	n := New(&fakeWatcherStore{}, sender, 5)

	n.NotifyPriceDrop(uuid.New(), "Obscure Gadget", decimal.NewFromInt(500))
	n.Close()

	if got := sender.tokens(); len(got) != 0 {
		t.Fatalf("expected no sends, got %v", got)
	}
}

func TestNotifyPriceDrop_WatcherLookupFailure(t *testing.T) {
	sender := &fakeSender{}
	n := New(&fakeWatcherStore{err: errors.New("db down")}, sender, 5)

	n.NotifyPriceDrop(uuid.New(), "Laptop", decimal.NewFromInt(50000))
	n.Close()

	if got := sender.tokens(); len(got) != 0 {
		t.Fatalf("expected no sends, got %v", got)
	}
}
