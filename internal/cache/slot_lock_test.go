package cache

import (
	"context"
	"testing"
	"time"
)

func TestSlotLockKey(t *testing.T) {
	got := SlotLockKey(7, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if got != "slot:7:2024-03-01" {
		t.Fatalf("unexpected slot lock key: %s", got)
	}
}

func TestNilSlotLockerIsNoop(t *testing.T) {
	var locker *RedisSlotLocker
	release, err := locker.Lock(context.Background(), "slot:1:2024-03-01")
	if err != nil {
		t.Fatalf("nil locker should not fail: %v", err)
	}
	release()
}

func TestNewSlotLockerWithoutRedis(t *testing.T) {
	redisEnabled = false
	if locker := NewRedisSlotLocker(10); locker != nil {
		t.Fatalf("locker should be nil when redis is disabled")
	}
	if locker := NewRedisSlotLockerWithClient(nil, 10); locker != nil {
		t.Fatalf("locker should be nil without client")
	}
}

func TestLocalSlotLockerSerializesSameKey(t *testing.T) {
	locker := NewLocalSlotLocker()
	release, err := locker.Lock(context.Background(), "slot:7:2024-03-01")
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	other, err := locker.Lock(context.Background(), "slot:8:2024-03-01")
	if err != nil {
		t.Fatalf("different key should not wait: %v", err)
	}
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "slot:7:2024-03-01"); err != context.DeadlineExceeded {
		t.Fatalf("held key should block until deadline, got %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		next, err := locker.Lock(context.Background(), "slot:7:2024-03-01")
		if err == nil {
			next()
		}
		close(acquired)
	}()
	release()
	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("waiter should acquire after release")
	}
	if len(locker.slots) != 0 {
		t.Fatalf("released keys should be dropped, got %d", len(locker.slots))
	}
}

func TestConsolidatedViewKey(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	got := ConsolidatedViewKey(3, 5, from, to)
	if got != "view:v3:5:2024-03-01:2024-03-07" {
		t.Fatalf("unexpected view key: %s", got)
	}
}
