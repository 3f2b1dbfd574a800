package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func mustLock(t *testing.T, k *Keyed, keys ...string) func() {
	t.Helper()
	unlock, err := k.Lock(context.Background(), keys...)
	if err != nil {
		t.Errorf("lock %v: %v", keys, err)
		return func() {}
	}
	return unlock
}

func TestKeyedSerializesSameKey(t *testing.T) {
	k := NewKeyed()
	key := ScheduleKey(1, "2030-01-07")

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := mustLock(t, k, key)
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50, got %d", counter)
	}
	if k.size() != 0 {
		t.Fatalf("expected entries to be released, got %d", k.size())
	}
}

func TestKeyedMultipleKeysNoDeadlock(t *testing.T) {
	k := NewKeyed()
	a := ScheduleKey(1, "2030-01-07")
	b := ScheduleKey(1, "2030-01-08")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			mustLock(t, k, a, b)()
		}()
		go func() {
			defer wg.Done()
			mustLock(t, k, b, a, b)()
		}()
	}
	wg.Wait()

	if k.size() != 0 {
		t.Fatalf("expected entries to be released, got %d", k.size())
	}
}

func TestKeyedWaitHonorsDeadline(t *testing.T) {
	k := NewKeyed()
	key := ScheduleKey(1, "2030-01-07")

	unlock := mustLock(t, k, key)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	_, err := k.Lock(ctx, key)
	elapsed := time.Since(started)

	if kind, _ := httperr.KindOf(err); kind != httperr.KindTransient {
		t.Fatalf("expected transient error, got %v", err)
	}
	if elapsed > time.Second {
		t.Fatalf("wait ignored the deadline: %s", elapsed)
	}

	unlock()
	if k.size() != 0 {
		t.Fatalf("expected entries to be released, got %d", k.size())
	}

	// a chave continua utilizável depois da desistência
	mustLock(t, k, key)()
}

func TestKeyedTimeoutReleasesKeysAlreadyHeld(t *testing.T) {
	k := NewKeyed()
	a := ScheduleKey(1, "2030-01-07")
	b := ScheduleKey(1, "2030-01-08")

	unlockB := mustLock(t, k, b)
	defer unlockB()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// a é obtida primeiro (ordem lexicográfica) e b expira
	if _, err := k.Lock(ctx, a, b); err == nil {
		t.Fatal("expected timeout while waiting for b")
	}

	done := make(chan struct{})
	go func() {
		mustLock(t, k, a)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("key a was not released after the failed lock")
	}
}
