package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/marcoyuen/culturemap/internal/importer"
)

// fakeAccounts is an in-memory accountStore with unique usernames.
type fakeAccounts struct {
	users   map[string]User
	creates int
	getErr  error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: map[string]User{}}
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (User, error) {
	if f.getErr != nil {
		return User{}, f.getErr
	}
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return User{}, ErrUserNotFound
}

func (f *fakeAccounts) Create(_ context.Context, username, email, _, role string, _ int) (uint64, error) {
	if _, ok := f.users[username]; ok {
		return 0, ErrUsernameExists
	}
	f.creates++
	id := uint64(len(f.users) + 1)
	f.users[username] = User{ID: id, Username: username, Email: email, Role: role}
	return id, nil
}

var adminAccount = importer.BootstrapAccount{
	Username: "admin", Password: "admin123", Email: "admin@culturalvenues.hk", Role: "admin",
}

func TestEnsureAccountCreatesOnce(t *testing.T) {
	accounts := newFakeAccounts()
	store := &ImportStore{Users: accounts}
	ctx := context.Background()

	if err := store.EnsureAccount(ctx, adminAccount); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if accounts.creates != 1 {
		t.Fatalf("creates = %d, want 1", accounts.creates)
	}

	// A second startup finds the account and must not create again.
	if err := store.EnsureAccount(ctx, adminAccount); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if accounts.creates != 1 {
		t.Errorf("creates = %d after re-run, want 1", accounts.creates)
	}
	if got := accounts.users["admin"].Role; got != "admin" {
		t.Errorf("stored role = %q", got)
	}
}

func TestEnsureAccountToleratesConcurrentCreate(t *testing.T) {
	// The lookup misses but the insert hits the unique key anyway, as
	// happens when another process created the account in between.  The
	// duplicate must be treated as success.
	accounts := newFakeAccounts()
	accounts.users["admin"] = User{ID: 1, Username: "admin"}
	accounts.getErr = ErrUserNotFound

	store := &ImportStore{Users: accounts}
	if err := store.EnsureAccount(context.Background(), adminAccount); err != nil {
		t.Fatalf("duplicate create should be tolerated: %v", err)
	}
	if accounts.creates != 0 {
		t.Errorf("creates = %d, want 0", accounts.creates)
	}
}

func TestEnsureAccountPropagatesLookupError(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.getErr = errors.New("connection reset")

	store := &ImportStore{Users: accounts}
	if err := store.EnsureAccount(context.Background(), adminAccount); err == nil {
		t.Fatal("storage errors must not be swallowed")
	}
	if accounts.creates != 0 {
		t.Errorf("creates = %d, want 0", accounts.creates)
	}
}
