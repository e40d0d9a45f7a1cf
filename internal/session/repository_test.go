package session

import (
	"errors"
	"testing"
	"time"

	"github.com/mdoganay/login-core/internal/auth"
)

func testSession(id string, expiresIn time.Duration) *AdminSession {
	now := time.Now().UTC().Truncate(time.Second)
	return &AdminSession{
		ID:        id,
		Username:  "admin",
		Role:      auth.RoleSuperAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
		IPAddress: "127.0.0.1",
		UserAgent: "test-agent",
		IsActive:  true,
	}
}

func TestRepository_InsertAndGet(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := t.Context()

	want := testSession("sess-1", time.Hour)
	if err := repo.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Username != want.Username || got.Role != want.Role {
		t.Errorf("Get() = %s/%s, want %s/%s", got.Username, got.Role, want.Username, want.Role)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
	if got.IPAddress != "127.0.0.1" || got.UserAgent != "test-agent" {
		t.Errorf("client metadata not round-tripped: %+v", got)
	}
	if !got.IsActive {
		t.Error("session should be active")
	}
}

func TestRepository_GetUnknown(t *testing.T) {
	repo := NewRepository(testDB(t))

	_, err := repo.Get(t.Context(), "no-such-session")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestRepository_Deactivate(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := t.Context()

	if err := repo.Insert(ctx, testSession("sess-1", time.Hour)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Deactivate(ctx, "sess-1"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.IsActive {
		t.Error("session should be inactive after Deactivate")
	}

	// Deactivating again, or an unknown id, is not an error
	if err := repo.Deactivate(ctx, "sess-1"); err != nil {
		t.Errorf("repeated Deactivate() error = %v", err)
	}
	if err := repo.Deactivate(ctx, "never-existed"); err != nil {
		t.Errorf("Deactivate(unknown) error = %v", err)
	}
}

func TestRepository_CountActive(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := t.Context()
	now := time.Now().UTC()

	// One live, one expired, one deactivated
	if err := repo.Insert(ctx, testSession("live", time.Hour)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testSession("expired", -time.Hour)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testSession("closed", time.Hour)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Deactivate(ctx, "closed"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	count, err := repo.CountActive(ctx, now)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountActive() = %d, want 1", count)
	}
}
