package infra

import (
	"context"
	"sync"
	"time"

	"stock_orders/internal/domain"
)

type lockKey struct {
	customerID uint
	assetName  string
}

type lockEntry struct {
	ch   chan struct{} // holds one token while the lock is taken
	refs int
}

// LockManager serializes access to one (customer, asset) balance row.
// A handler must hold this lock for the whole transaction whenever it
// reads-then-writes an asset; acquisition is bounded so a stalled
// transaction cannot block others indefinitely.
type LockManager struct {
	mu      sync.Mutex
	timeout time.Duration
	locks   map[lockKey]*lockEntry
}

// NewLockManager creates a LockManager with the given acquire timeout.
func NewLockManager(timeout time.Duration) *LockManager {
	return &LockManager{
		timeout: timeout,
		locks:   make(map[lockKey]*lockEntry),
	}
}

// Acquire takes the exclusive lock for (customerID, assetName), waiting up
// to the configured timeout. On success it returns a release function; the
// caller must invoke it exactly once when the transaction ends. On timeout
// it returns a retriable LockTimeoutError.
func (m *LockManager) Acquire(ctx context.Context, customerID uint, assetName string) (func(), error) {
	key := lockKey{customerID: customerID, assetName: assetName}

	m.mu.Lock()
	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case entry.ch <- struct{}{}:
		return func() {
			<-entry.ch
			m.put(key, entry)
		}, nil
	case <-ctx.Done():
		m.put(key, entry)
		return nil, &domain.LockAbortedError{CustomerID: customerID, AssetName: assetName, Err: ctx.Err()}
	case <-timer.C:
		m.put(key, entry)
		return nil, &domain.LockTimeoutError{CustomerID: customerID, AssetName: assetName}
	}
}

// put drops one reference and removes the entry once nobody waits on it.
func (m *LockManager) put(key lockKey, entry *lockEntry) {
	m.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}
