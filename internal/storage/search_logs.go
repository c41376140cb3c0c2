package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/models"
)

const storedColumns = `id, create_time, email_addr, source, search_text, search_reason, description, is_admin`

// UpsertSearchLogs stores logs keyed by fingerprint and returns how many
// rows were newly inserted. Records already present are skipped, so the
// call is safe to repeat with overlapping input. Each batch commits in its
// own short transaction; on error the count covers committed batches only.
func (c *SQLClient) UpsertSearchLogs(ctx context.Context, logs []models.SearchLog) (int, error) {
	inserted := 0
	for start := 0; start < len(logs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(logs) {
			end = len(logs)
		}
		n, err := c.upsertBatch(ctx, logs[start:end])
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}

// upsertBatch counts an insert only when the existence check inside the
// same transaction found no row, instead of trusting driver row counts.
func (c *SQLClient) upsertBatch(ctx context.Context, batch []models.SearchLog) (inserted int, err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, faults.Storage("begin upsert", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	existsStmt, err := tx.PrepareContext(ctx, `SELECT 1 FROM search_logs WHERE id = ?`)
	if err != nil {
		return 0, faults.Storage("prepare exists", err)
	}
	defer existsStmt.Close()

	insertStmt, err := tx.PrepareContext(ctx, c.dialect.InsertSearchLog)
	if err != nil {
		return 0, faults.Storage("prepare insert", err)
	}
	defer insertStmt.Close()

	for _, l := range batch {
		id := l.Fingerprint()

		var one int
		scanErr := existsStmt.QueryRowContext(ctx, id).Scan(&one)
		if scanErr == nil {
			continue
		}
		if !errors.Is(scanErr, sql.ErrNoRows) {
			err = faults.Storage("check search log", scanErr)
			return 0, err
		}

		isAdmin := 0
		if l.IsAdmin {
			isAdmin = 1
		}
		if _, err = insertStmt.ExecContext(ctx,
			id,
			l.NormalizedCreateTime(),
			strings.ToLower(l.EmailAddr),
			nullIfEmpty(l.SearchText),
			nullIfEmpty(l.MuseQuery),
			nullIfEmpty(l.Description),
			nullIfEmpty(l.SearchReason),
			nullIfEmpty(l.Source),
			isAdmin,
			nullIfEmpty(l.SearchPath),
			l.RawJSON(),
		); err != nil {
			err = faults.Storage("insert search log", err)
			return 0, err
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		err = faults.Storage("commit upsert", err)
		return 0, err
	}
	return inserted, nil
}

// CountSearchLogs returns the total number of stored rows.
func (c *SQLClient) CountSearchLogs(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_logs`).Scan(&n); err != nil {
		return 0, faults.Storage("count search logs", err)
	}
	return n, nil
}

// CountSearchesByUser returns per-user counts of searches created at or after since.
func (c *SQLClient) CountSearchesByUser(ctx context.Context, since time.Time) ([]models.UserSearchCount, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT email_addr, COUNT(*) AS cnt
		FROM search_logs
		WHERE create_time >= ?
		GROUP BY email_addr
		ORDER BY cnt DESC, email_addr ASC
	`, models.FormatStoredTime(since))
	if err != nil {
		return nil, faults.Storage("count searches by user", err)
	}
	defer rows.Close()

	out := []models.UserSearchCount{}
	for rows.Next() {
		var uc models.UserSearchCount
		if err := rows.Scan(&uc.Email, &uc.Count); err != nil {
			return nil, faults.Storage("scan user count", err)
		}
		out = append(out, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Storage("iterate user counts", err)
	}
	return out, nil
}

// ListUserSearches returns one page of a user's searches, newest first,
// together with the total number of matching rows.
func (c *SQLClient) ListUserSearches(ctx context.Context, email string, since time.Time, limit, offset int) ([]models.StoredSearchLog, int64, error) {
	email = strings.ToLower(email)
	sinceStr := models.FormatStoredTime(since)

	var total int64
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_logs WHERE email_addr = ? AND create_time >= ?`,
		email, sinceStr,
	).Scan(&total); err != nil {
		return nil, 0, faults.Storage("count user searches", err)
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM search_logs
		WHERE email_addr = ? AND create_time >= ?
		ORDER BY create_time DESC, id ASC
		LIMIT ? OFFSET ?
	`, storedColumns), email, sinceStr, limit, offset)
	if err != nil {
		return nil, 0, faults.Storage("list user searches", err)
	}
	defer rows.Close()

	out, err := scanStored(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountSearchesPerDay returns per-UTC-day counts for create_time in [start, end).
func (c *SQLClient) CountSearchesPerDay(ctx context.Context, start, end time.Time) ([]models.DaySearchCount, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT SUBSTR(create_time, 1, 10) AS day, COUNT(*)
		FROM search_logs
		WHERE create_time >= ? AND create_time < ?
		GROUP BY day
		ORDER BY day
	`, models.FormatStoredTime(start), models.FormatStoredTime(end))
	if err != nil {
		return nil, faults.Storage("count searches per day", err)
	}
	defer rows.Close()

	out := []models.DaySearchCount{}
	for rows.Next() {
		var dc models.DaySearchCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, faults.Storage("scan day count", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Storage("iterate day counts", err)
	}
	return out, nil
}

// ListSearchesBetween returns rows with create_time in [start, end) ordered
// by user, newest first within a user.
func (c *SQLClient) ListSearchesBetween(ctx context.Context, start, end time.Time) ([]models.StoredSearchLog, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM search_logs
		WHERE create_time >= ? AND create_time < ?
		ORDER BY email_addr ASC, create_time DESC
	`, storedColumns), models.FormatStoredTime(start), models.FormatStoredTime(end))
	if err != nil {
		return nil, faults.Storage("list searches between", err)
	}
	defer rows.Close()

	return scanStored(rows)
}

func scanStored(rows *sql.Rows) ([]models.StoredSearchLog, error) {
	out := []models.StoredSearchLog{}
	for rows.Next() {
		var s models.StoredSearchLog
		var source, text, reason, description sql.NullString
		var isAdmin sql.NullInt64
		if err := rows.Scan(&s.ID, &s.CreateTime, &s.EmailAddr, &source, &text, &reason, &description, &isAdmin); err != nil {
			return nil, faults.Storage("scan search log", err)
		}
		s.Source = source.String
		s.SearchText = text.String
		s.SearchReason = reason.String
		s.Description = description.String
		s.IsAdmin = isAdmin.Valid && isAdmin.Int64 != 0
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Storage("iterate search logs", err)
	}
	return out, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
