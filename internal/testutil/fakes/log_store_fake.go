package fakes

import (
	"context"
	"sync"

	"github.com/dhima/searchlog-poller/internal/models"
)

// FakeLogStore is an in-memory LogStore keyed by fingerprint.
type FakeLogStore struct {
	mu   sync.Mutex
	rows map[string]models.SearchLog
	Err  error
}

func NewFakeLogStore() *FakeLogStore {
	return &FakeLogStore{rows: make(map[string]models.SearchLog)}
}

func (f *FakeLogStore) UpsertSearchLogs(_ context.Context, logs []models.SearchLog) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	inserted := 0
	for _, l := range logs {
		id := l.Fingerprint()
		if _, ok := f.rows[id]; ok {
			continue
		}
		f.rows[id] = l
		inserted++
	}
	return inserted, nil
}

// Len returns the number of stored rows.
func (f *FakeLogStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}
