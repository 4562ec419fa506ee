package engine

import (
	"sync"

	"github.com/mfernandes/stockmatch/internal/domain"
)

// SymbolLocks is a table of per-symbol mutexes. Everything that must
// not interleave with a matching pass on a symbol (the pass itself,
// cancellation, primary allocation) serializes through the same lock.
// Different symbols never contend.
type SymbolLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSymbolLocks creates an empty lock table.
func NewSymbolLocks() *SymbolLocks {
	return &SymbolLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// get returns the symbol's mutex, creating it on first use.
func (l *SymbolLocks) get(symbol string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[symbol]
	if !ok {
		m = &sync.Mutex{}
		l.locks[symbol] = m
	}
	return m
}

// Acquire takes the symbol's exclusive lock and returns the release
// function. When wait is false and the symbol is busy it returns
// domain.ErrMatchInProgress instead of blocking.
func (l *SymbolLocks) Acquire(symbol string, wait bool) (func(), error) {
	m := l.get(symbol)
	if wait {
		m.Lock()
		return m.Unlock, nil
	}
	if !m.TryLock() {
		return nil, domain.ErrMatchInProgress
	}
	return m.Unlock, nil
}
