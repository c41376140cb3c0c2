// Package searchlogs answers the dashboard's read-only questions over
// stored search logs.
package searchlogs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/pkg/clock"
)

const (
	maxDays     = 3650
	maxPageSize = 500
	dateLayout  = "2006-01-02"
)

// Service encapsulates dashboard query logic.
type Service struct {
	store       Store
	clock       clock.Clock
	defaultDays int
	pageSize    int
}

// NewService creates a search-log query service.
func NewService(store Store, clk clock.Clock, defaultDays, pageSize int) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if defaultDays < 1 {
		defaultDays = 30
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return &Service{store: store, clock: clk, defaultDays: defaultDays, pageSize: pageSize}
}

func (s *Service) resolveDays(days int) (int, error) {
	if days == 0 {
		return s.defaultDays, nil
	}
	if days < 0 || days > maxDays {
		return 0, NewValidationError("days must be between 1 and %d", maxDays)
	}
	return days, nil
}

// UserCounts returns per-user search counts over the last days (0 = default).
func (s *Service) UserCounts(ctx context.Context, days int) (*models.UserCountsResponse, error) {
	days, err := s.resolveDays(days)
	if err != nil {
		return nil, err
	}
	since := s.clock.Now().UTC().AddDate(0, 0, -days)

	users, err := s.store.CountSearchesByUser(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count searches by user: %w", err)
	}
	return &models.UserCountsResponse{Days: days, Users: users}, nil
}

// UserSearches returns one page of a user's searches, newest first.
func (s *Service) UserSearches(ctx context.Context, email string, q models.ListUserSearchesQuery) (*models.UserSearchesResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, NewValidationError("email is required")
	}
	days, err := s.resolveDays(q.Days)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	since := s.clock.Now().UTC().AddDate(0, 0, -days)
	rows, total, err := s.store.ListUserSearches(ctx, email, since, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list user searches: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &models.UserSearchesResponse{
		Email:    email,
		Days:     days,
		Searches: rows,
		Pagination: models.Pagination{
			CurrentPage:  page,
			PageSize:     limit,
			TotalPages:   totalPages,
			TotalRecords: total,
		},
	}, nil
}

// MonthCounts returns per-day counts for a UTC calendar month. Zero year or
// month means the current one.
func (s *Service) MonthCounts(ctx context.Context, year, month int) (*models.MonthCountsResponse, error) {
	now := s.clock.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if year < 1970 || year > 9999 {
		return nil, NewValidationError("year must be between 1970 and 9999")
	}
	if month < 1 || month > 12 {
		return nil, NewValidationError("month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days, err := s.store.CountSearchesPerDay(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("count searches per day: %w", err)
	}
	return &models.MonthCountsResponse{Year: year, Month: month, Days: days}, nil
}

// DaySearches returns the searches of one UTC day (YYYY-MM-DD) grouped by
// user, users in email order.
func (s *Service) DaySearches(ctx context.Context, date string) (*models.DaySearchesResponse, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, NewValidationError("date must be formatted as YYYY-MM-DD")
	}

	rows, err := s.store.ListSearchesBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list searches for day: %w", err)
	}

	users := []models.UserDaySearches{}
	for _, r := range rows {
		if n := len(users); n > 0 && users[n-1].Email == r.EmailAddr {
			users[n-1].Entries = append(users[n-1].Entries, r)
			users[n-1].Count++
			continue
		}
		users = append(users, models.UserDaySearches{
			Email:   r.EmailAddr,
			Count:   1,
			Entries: []models.StoredSearchLog{r},
		})
	}

	return &models.DaySearchesResponse{Date: day.Format(dateLayout), Users: users}, nil
}
