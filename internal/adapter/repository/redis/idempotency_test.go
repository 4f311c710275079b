package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyCheckAndSetFirstRequest(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists {
		t.Fatalf("expected first request to claim the key, got existing %q", existing)
	}
}

func TestIdempotencyCheckAndSetReplay(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	response := []byte(`{"id":"loan-1","status":"active"}`)
	if _, _, err := store.CheckAndSet(ctx, "key-1", response, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !exists {
		t.Fatal("expected replay to find the stored response")
	}

	if string(existing) != string(response) {
		t.Fatalf("expected %q, got %q", response, existing)
	}
}

func TestIdempotencyUpdate(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := []byte(`{"id":"loan-1","balance":"0"}`)
	if err := store.Update(ctx, "key-1", final, time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !exists || string(existing) != string(final) {
		t.Fatalf("expected final response, got exists=%v value=%q", exists, existing)
	}
}

func TestIdempotencyTTLExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", []byte("r"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists {
		t.Fatal("expected expired key to be reclaimable")
	}
}
