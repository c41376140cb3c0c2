package storage_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/storage"
)

func TestUpsertSearchLogs_WhenNewRecords_ThenInsertsAll(t *testing.T) {
	// Arrange
	client, conn := newTestClient(t, 500)
	logs := []models.SearchLog{
		logAt("alice@example.com", "2025-01-02T03:04:05+0000", "invoice"),
		logAt("bob@example.com", "2025-01-02T04:00:00+0000", "contract"),
	}

	// Act
	inserted, err := client.UpsertSearchLogs(context.Background(), logs)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 2, countRows(t, conn))
}

func TestUpsertSearchLogs_WhenSameBatchTwice_ThenSecondInsertsNothing(t *testing.T) {
	// Arrange
	client, conn := newTestClient(t, 500)
	logs := []models.SearchLog{
		logAt("alice@example.com", "2025-01-02T03:04:05+0000", "invoice"),
		logAt("bob@example.com", "2025-01-02T04:00:00+0000", "contract"),
		logAt("carol@example.com", "2025-01-02T05:00:00+0000", "nda"),
	}
	ctx := context.Background()

	// Act
	first, err1 := client.UpsertSearchLogs(ctx, logs)
	second, err2 := client.UpsertSearchLogs(ctx, logs)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, 3, first)
	assert.Equal(t, 0, second)
	assert.Equal(t, 3, countRows(t, conn))
}

func TestUpsertSearchLogs_WhenDuplicatesWithinInputAndAcrossBatches_ThenCountsOnlyNewRows(t *testing.T) {
	// Arrange
	client, conn := newTestClient(t, 2)
	a := logAt("alice@example.com", "2025-01-02T03:04:05+0000", "invoice")
	aUpper := a
	aUpper.EmailAddr = "ALICE@example.com"
	b := logAt("bob@example.com", "2025-01-02T04:00:00+0000", "contract")
	logs := []models.SearchLog{a, b, aUpper, a, b}

	// Act
	inserted, err := client.UpsertSearchLogs(context.Background(), logs)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 2, countRows(t, conn))
}

func TestUpsertSearchLogs_WhenStored_ThenColumnsNormalized(t *testing.T) {
	// Arrange
	client, conn := newTestClient(t, 500)
	var l models.SearchLog
	require.NoError(t, json.Unmarshal([]byte(`{"createTime":"2025-01-02T05:04:05+0200","emailAddr":"Alice@Example.com","searchText":"x","isAdmin":true,"extra":"kept"}`), &l))

	// Act
	_, err := client.UpsertSearchLogs(context.Background(), []models.SearchLog{l})
	require.NoError(t, err)

	// Assert
	var id, createTime, email, raw string
	var isAdmin int
	require.NoError(t, conn.QueryRow(`SELECT id, create_time, email_addr, is_admin, raw_json FROM search_logs`).
		Scan(&id, &createTime, &email, &isAdmin, &raw))
	assert.Equal(t, l.Fingerprint(), id)
	assert.Equal(t, "2025-01-02T03:04:05Z", createTime)
	assert.Equal(t, "alice@example.com", email)
	assert.Equal(t, 1, isAdmin)
	assert.Contains(t, raw, `"extra":"kept"`)
}

func TestUpsertSearchLogs_WhenEmpty_ThenNoop(t *testing.T) {
	client, _ := newTestClient(t, 500)

	inserted, err := client.UpsertSearchLogs(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func seedDashboardData(t *testing.T) (*storage.SQLClient, time.Time) {
	t.Helper()
	client, _ := newTestClient(t, 500)
	logs := []models.SearchLog{
		logAt("alice@example.com", "2025-03-01T09:00:00Z", "a1"),
		logAt("alice@example.com", "2025-03-01T10:00:00Z", "a2"),
		logAt("alice@example.com", "2025-03-02T10:00:00Z", "a3"),
		logAt("bob@example.com", "2025-03-01T11:00:00Z", "b1"),
		logAt("carol@example.com", "2025-02-27T11:00:00Z", "c1"),
	}
	_, err := client.UpsertSearchLogs(context.Background(), logs)
	require.NoError(t, err)
	return client, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
}

func TestCountSearchesByUser_WhenSince_ThenOrdersByCountDesc(t *testing.T) {
	// Arrange
	c, since := seedDashboardData(t)

	// Act
	counts, err := c.CountSearchesByUser(context.Background(), since)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []models.UserSearchCount{
		{Email: "alice@example.com", Count: 3},
		{Email: "bob@example.com", Count: 1},
	}, counts)
}

func TestListUserSearches_WhenPaged_ThenNewestFirstWithTotal(t *testing.T) {
	// Arrange
	c, since := seedDashboardData(t)
	ctx := context.Background()

	// Act
	page1, total, err := c.ListUserSearches(ctx, "ALICE@example.com", since, 2, 0)
	require.NoError(t, err)
	page2, _, err := c.ListUserSearches(ctx, "alice@example.com", since, 2, 2)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(3), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "a3", page1[0].SearchText)
	assert.Equal(t, "a2", page1[1].SearchText)
	require.Len(t, page2, 1)
	assert.Equal(t, "a1", page2[0].SearchText)
	assert.Equal(t, "archive", page2[0].Source)
}

func TestCountSearchesPerDay_WhenRangeGiven_ThenGroupsByUTCDay(t *testing.T) {
	// Arrange
	c, _ := seedDashboardData(t)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Act
	days, err := c.CountSearchesPerDay(context.Background(), start, start.AddDate(0, 1, 0))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []models.DaySearchCount{
		{Date: "2025-03-01", Count: 3},
		{Date: "2025-03-02", Count: 1},
	}, days)
}

func TestListSearchesBetween_WhenDayGiven_ThenOrderedByUserThenNewest(t *testing.T) {
	// Arrange
	c, _ := seedDashboardData(t)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Act
	rows, err := c.ListSearchesBetween(context.Background(), start, start.AddDate(0, 0, 1))

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a2", rows[0].SearchText)
	assert.Equal(t, "a1", rows[1].SearchText)
	assert.Equal(t, "bob@example.com", rows[2].EmailAddr)
}

func TestCountSearchLogs_WhenSeeded_ThenReturnsTotal(t *testing.T) {
	c, _ := seedDashboardData(t)

	n, err := c.CountSearchLogs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
