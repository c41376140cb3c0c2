package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// SearchLog is one archive search-log entry as returned by the remote API.
type SearchLog struct {
	CreateTime   string          `json:"createTime"`
	EmailAddr    string          `json:"emailAddr"`
	SearchText   string          `json:"searchText"`
	MuseQuery    string          `json:"museQuery"`
	Description  string          `json:"description"`
	SearchReason string          `json:"searchReason"`
	Source       string          `json:"source"`
	IsAdmin      bool            `json:"isAdmin"`
	SearchPath   string          `json:"searchPath"`
	Raw          json.RawMessage `json:"-"`
}

// wireSearchLog tolerates the loose typing of the remote payload: text
// fields may be null, and museQuery may arrive as a JSON object.
type wireSearchLog struct {
	CreateTime   flexString `json:"createTime"`
	EmailAddr    flexString `json:"emailAddr"`
	SearchText   flexString `json:"searchText"`
	MuseQuery    flexString `json:"museQuery"`
	Description  flexString `json:"description"`
	SearchReason flexString `json:"searchReason"`
	Source       flexString `json:"source"`
	IsAdmin      flexBool   `json:"isAdmin"`
	SearchPath   flexString `json:"searchPath"`
}

// UnmarshalJSON decodes a remote record and keeps the verbatim payload.
func (s *SearchLog) UnmarshalJSON(data []byte) error {
	var w wireSearchLog
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = SearchLog{
		CreateTime:   string(w.CreateTime),
		EmailAddr:    strings.ToLower(string(w.EmailAddr)),
		SearchText:   string(w.SearchText),
		MuseQuery:    string(w.MuseQuery),
		Description:  string(w.Description),
		SearchReason: string(w.SearchReason),
		Source:       string(w.Source),
		IsAdmin:      bool(w.IsAdmin),
		SearchPath:   string(w.SearchPath),
		Raw:          append(json.RawMessage(nil), data...),
	}
	return nil
}

// Fingerprint is the dedup identity of a record: SHA-256 over the lowercased
// actor email, creation time, search text, structured query and search path.
// It depends on nothing else, so re-fetching a window yields the same ids.
func (s SearchLog) Fingerprint() string {
	parts := []string{
		strings.ToLower(s.EmailAddr),
		s.CreateTime,
		s.SearchText,
		s.MuseQuery,
		s.SearchPath,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

var createTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
}

// NormalizedCreateTime renders CreateTime as YYYY-MM-DDTHH:MM:SSZ in UTC so
// string order matches time order in storage. Unparseable values are
// returned unchanged.
func (s SearchLog) NormalizedCreateTime() string {
	if t, ok := ParseCreateTime(s.CreateTime); ok {
		return FormatStoredTime(t)
	}
	return s.CreateTime
}

// ParseCreateTime parses the timestamp formats the remote API is known to emit.
func ParseCreateTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range createTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatStoredTime is the canonical text form of create_time columns and
// range-query bounds.
func FormatStoredTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// RawJSON returns the compact verbatim payload, or a JSON rendering of the
// known fields when the record was built in code rather than decoded.
func (s SearchLog) RawJSON() string {
	if len(s.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, s.Raw); err == nil {
			return buf.String()
		}
		return string(s.Raw)
	}
	b, _ := json.Marshal(s)
	return string(b)
}

// flexString accepts strings, null and arbitrary JSON values. Non-string
// values are kept as compact JSON text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*f = flexString(buf.String())
	return nil
}

// flexBool reads any JSON value by truthiness: false, null, 0, "", [] and
// {} are false, everything else is true.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = flexBool(t)
	case float64:
		*f = t != 0
	case string:
		*f = t != ""
	case []interface{}:
		*f = len(t) > 0
	case map[string]interface{}:
		*f = len(t) > 0
	default:
		*f = true
	}
	return nil
}

// StoredSearchLog is a persisted row as read back for the dashboard.
type StoredSearchLog struct {
	ID           string `json:"id"`
	CreateTime   string `json:"create_time"`
	EmailAddr    string `json:"email_addr"`
	Source       string `json:"source"`
	SearchText   string `json:"search_text"`
	SearchReason string `json:"search_reason"`
	Description  string `json:"description"`
	IsAdmin      bool   `json:"is_admin"`
} // @name StoredSearchLog
