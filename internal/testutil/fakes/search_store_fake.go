package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhima/searchlog-poller/internal/models"
)

// FakeSearchStore answers the dashboard read queries from an in-memory
// slice. Rows must carry a normalized CreateTime ("2006-01-02T15:04:05Z").
type FakeSearchStore struct {
	mu   sync.Mutex
	Rows []models.StoredSearchLog
	Err  error

	LastSince  time.Time
	LastStart  time.Time
	LastEnd    time.Time
	LastLimit  int
	LastOffset int
}

func NewFakeSearchStore(rows ...models.StoredSearchLog) *FakeSearchStore {
	return &FakeSearchStore{Rows: rows}
}

func stamp(t time.Time) string { return models.FormatStoredTime(t) }

func (f *FakeSearchStore) CountSearchesByUser(_ context.Context, since time.Time) ([]models.UserSearchCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSince = since
	if f.Err != nil {
		return nil, f.Err
	}
	counts := map[string]int64{}
	for _, r := range f.Rows {
		if r.CreateTime >= stamp(since) {
			counts[r.EmailAddr]++
		}
	}
	out := []models.UserSearchCount{}
	for email, n := range counts {
		out = append(out, models.UserSearchCount{Email: email, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (f *FakeSearchStore) ListUserSearches(_ context.Context, email string, since time.Time, limit, offset int) ([]models.StoredSearchLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSince, f.LastLimit, f.LastOffset = since, limit, offset
	if f.Err != nil {
		return nil, 0, f.Err
	}
	var matched []models.StoredSearchLog
	for _, r := range f.Rows {
		if r.EmailAddr == strings.ToLower(email) && r.CreateTime >= stamp(since) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreateTime > matched[j].CreateTime })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.StoredSearchLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *FakeSearchStore) CountSearchesPerDay(_ context.Context, start, end time.Time) ([]models.DaySearchCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastStart, f.LastEnd = start, end
	if f.Err != nil {
		return nil, f.Err
	}
	counts := map[string]int64{}
	for _, r := range f.Rows {
		if r.CreateTime >= stamp(start) && r.CreateTime < stamp(end) {
			counts[r.CreateTime[:10]]++
		}
	}
	out := []models.DaySearchCount{}
	for d, n := range counts {
		out = append(out, models.DaySearchCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *FakeSearchStore) ListSearchesBetween(_ context.Context, start, end time.Time) ([]models.StoredSearchLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastStart, f.LastEnd = start, end
	if f.Err != nil {
		return nil, f.Err
	}
	out := []models.StoredSearchLog{}
	for _, r := range f.Rows {
		if r.CreateTime >= stamp(start) && r.CreateTime < stamp(end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmailAddr != out[j].EmailAddr {
			return out[i].EmailAddr < out[j].EmailAddr
		}
		return out[i].CreateTime > out[j].CreateTime
	})
	return out, nil
}
