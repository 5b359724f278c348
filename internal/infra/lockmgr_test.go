package infra

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock_orders/internal/domain"
)

func TestLockManagerExclusive(t *testing.T) {
	m := NewLockManager(50 * time.Millisecond)
	ctx := context.Background()

	release, err := m.Acquire(ctx, 1, "AAPL")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	// Second acquire on the same key must time out while held.
	_, err = m.Acquire(ctx, 1, "AAPL")
	var lockErr *domain.LockTimeoutError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockTimeoutError, got %v", err)
	}
	if !domain.IsRetriable(err) {
		t.Error("lock timeout must be retriable")
	}

	release()

	// Released lock can be taken again.
	release2, err := m.Acquire(ctx, 1, "AAPL")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}

func TestLockManagerIndependentKeys(t *testing.T) {
	m := NewLockManager(50 * time.Millisecond)
	ctx := context.Background()

	r1, err := m.Acquire(ctx, 1, "AAPL")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer r1()

	// Different asset and different customer are separate locks.
	r2, err := m.Acquire(ctx, 1, "TRY")
	if err != nil {
		t.Fatalf("acquire on other asset failed: %v", err)
	}
	defer r2()

	r3, err := m.Acquire(ctx, 2, "AAPL")
	if err != nil {
		t.Fatalf("acquire for other customer failed: %v", err)
	}
	defer r3()
}

func TestLockManagerContextCancel(t *testing.T) {
	m := NewLockManager(time.Minute)

	release, err := m.Acquire(context.Background(), 1, "AAPL")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = m.Acquire(ctx, 1, "AAPL")
	var abortErr *domain.LockAbortedError
	if !errors.As(err, &abortErr) {
		t.Fatalf("expected LockAbortedError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
	if abortErr.CustomerID != 1 || abortErr.AssetName != "AAPL" {
		t.Errorf("aborted lock key = %d/%s, want 1/AAPL", abortErr.CustomerID, abortErr.AssetName)
	}
}

func TestLockManagerSerializesCounter(t *testing.T) {
	m := NewLockManager(5 * time.Second)
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(ctx, 9, "TRY")
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 serialized increments, got %d", counter)
	}
}
