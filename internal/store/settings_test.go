package store

import (
	"context"
	"testing"

	"github.com/erazemk/freshrack/internal/db"
	"github.com/erazemk/freshrack/internal/expiry"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestExpiryPolicyDefaultsAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := GetExpiryPolicy(ctx, database)
	if err != nil {
		t.Fatalf("GetExpiryPolicy: %v", err)
	}
	if p != expiry.DefaultPolicy() {
		t.Errorf("expected default policy, got %+v", p)
	}

	if err := SetExpiryPolicy(ctx, database, expiry.Policy{NearlyExpiringDays: 5}); err != nil {
		t.Fatalf("SetExpiryPolicy: %v", err)
	}
	if err := SetExpiryPolicy(ctx, database, expiry.Policy{NearlyExpiringDays: 7}); err != nil {
		t.Fatalf("SetExpiryPolicy overwrite: %v", err)
	}

	p, err = GetExpiryPolicy(ctx, database)
	if err != nil {
		t.Fatalf("GetExpiryPolicy: %v", err)
	}
	if p.NearlyExpiringDays != 7 {
		t.Errorf("expected 7 days, got %d", p.NearlyExpiringDays)
	}
}

func TestSetExpiryPolicyRejectsInvalid(t *testing.T) {
	database := db.NewTestDB(t)

	if err := SetExpiryPolicy(context.Background(), database, expiry.Policy{NearlyExpiringDays: 0}); err == nil {
		t.Error("expected error for zero-day policy")
	}
}
