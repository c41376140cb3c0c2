package fakes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dhima/searchlog-poller/internal/models"
)

// FetchCall records one FetchSearchLogs invocation.
type FetchCall struct {
	Start time.Time
	End   time.Time
}

// FakeLogSource returns queued responses in order; once the queue is empty
// it keeps returning Default.
type FakeLogSource struct {
	mu        sync.Mutex
	responses [][]models.SearchLog
	Default   []models.SearchLog
	Err       error
	Calls     []FetchCall
	// Block, when set, holds FetchSearchLogs until the channel is closed.
	Block chan struct{}
}

func NewFakeLogSource(responses ...[]models.SearchLog) *FakeLogSource {
	return &FakeLogSource{responses: responses}
}

func (f *FakeLogSource) FetchSearchLogs(ctx context.Context, start, end time.Time) ([]models.SearchLog, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, FetchCall{Start: start, End: end})
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.responses) == 0 {
		return f.Default, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

// SetErr makes subsequent fetches fail with err (nil clears it).
func (f *FakeLogSource) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// CallCount returns how many fetches were made.
func (f *FakeLogSource) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastCall returns the most recent fetch window.
func (f *FakeLogSource) LastCall() (FetchCall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return FetchCall{}, errors.New("no fetch calls")
	}
	return f.Calls[len(f.Calls)-1], nil
}
