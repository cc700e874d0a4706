package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestResultStore(t *testing.T) (*ResultStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewResultStore(client), mr
}

func TestResultStoreSaveAndGet(t *testing.T) {
	store, _ := newTestResultStore(t)

	result := []byte(`{"retrospective":"3개월간 로그인 기능을 구현했다."}`)
	if err := store.Save(context.Background(), "job-1", result); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(result) {
		t.Errorf("Get() = %s, want %s", got, result)
	}
}

func TestResultStoreMissingJob(t *testing.T) {
	store, _ := newTestResultStore(t)

	_, err := store.Get(context.Background(), "unknown-job")
	if !errors.Is(err, ErrResultNotFound) {
		t.Errorf("Get() error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStoreExpiry(t *testing.T) {
	store, mr := newTestResultStore(t)

	if err := store.Save(context.Background(), "job-1", []byte("result")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mr.FastForward(resultTTL + 1)

	if _, err := store.Get(context.Background(), "job-1"); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStoreOverwrite(t *testing.T) {
	store, _ := newTestResultStore(t)

	if err := store.Save(context.Background(), "job-1", []byte("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(context.Background(), "job-1", []byte("second")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %s, want second", got)
	}
}
