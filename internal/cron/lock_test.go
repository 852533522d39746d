package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRedisStore struct {
	values map[string]string
	err    error
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.values[key] != value {
		return false, nil
	}
	delete(f.values, key)
	return true, nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := newFakeRedisStore()
	first, err := NewRedisLock(store, "td:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "td:lock:cron", time.Minute)
	ctx := context.Background()

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail: ok=%v err=%v", ok, err)
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release without ownership: %v", err)
	}
	if _, held := store.values["td:lock:cron"]; !held {
		t.Fatalf("non-owner release must not drop the lock")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = second.Acquire(ctx)
	if !ok {
		t.Fatalf("expected lock to be free after release")
	}
}

func TestRedisLockDoesNotDeleteForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, _ := NewRedisLock(store, "k", time.Minute)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatalf("acquire failed")
	}
	// simulate TTL expiry followed by another worker taking over
	store.values["k"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["k"] != "someone-else" {
		t.Fatalf("foreign lock was removed")
	}
}

func TestRedisLockErrors(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", 0); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := NewRedisLock(newFakeRedisStore(), "", 0); err == nil {
		t.Fatalf("expected error for empty key")
	}
	store := newFakeRedisStore()
	store.err = errors.New("redis down")
	lock, _ := NewRedisLock(store, "k", 0)
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", lock.ttl)
	}
	if _, err := lock.Acquire(context.Background()); err == nil {
		t.Fatalf("expected acquire error")
	}
}
