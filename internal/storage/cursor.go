package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dhima/searchlog-poller/internal/faults"
)

// GetCursorValue returns the value stored under key and whether it exists.
func (c *SQLClient) GetCursorValue(ctx context.Context, key string) (string, bool, error) {
	var v sql.NullString
	err := c.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, faults.Storage("get cursor "+key, err)
	}
	return v.String, true, nil
}

// SetCursorValue upserts key. The write is committed immediately.
func (c *SQLClient) SetCursorValue(ctx context.Context, key, value string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.UpsertKV, key, value); err != nil {
		return faults.Storage("set cursor "+key, err)
	}
	return nil
}

// DeleteCursorValues removes the given keys in one statement.
func (c *SQLClient) DeleteCursorValues(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	if _, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE k IN (`+placeholders+`)`, args...); err != nil {
		return faults.Storage("delete cursor", err)
	}
	return nil
}
