package services

import (
	"sort"
	"sync"
)

// accountLocks serializes journal mutations per account. The storage
// layer already wraps each mutation in a SQL transaction; the lock
// closes the read-modify-write gap between reading a balance and
// writing it back when several writers target the same account.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *accountLocks) get(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Lock acquires the per-account mutexes for every distinct id in
// ascending order, so two mutations touching the same pair of accounts
// can never deadlock. The returned func releases them in reverse.
func (l *accountLocks) Lock(ids ...int64) (unlock func()) {
	distinct := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	held := make([]*sync.Mutex, 0, len(distinct))
	for _, id := range distinct {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
