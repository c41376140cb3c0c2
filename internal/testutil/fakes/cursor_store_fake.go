package fakes

import (
	"context"
	"sync"
)

// FakeCursorStore is an in-memory CursorStore.
type FakeCursorStore struct {
	mu     sync.Mutex
	values map[string]string
	SetErr error
	GetErr error
}

func NewFakeCursorStore() *FakeCursorStore {
	return &FakeCursorStore{values: make(map[string]string)}
}

func (f *FakeCursorStore) GetCursorValue(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return "", false, f.GetErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FakeCursorStore) SetCursorValue(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = value
	return nil
}

func (f *FakeCursorStore) DeleteCursorValues(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// Snapshot copies the current values.
func (f *FakeCursorStore) Snapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
