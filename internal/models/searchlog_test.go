package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLog() SearchLog {
	return SearchLog{
		CreateTime:   "2025-01-02T03:04:05+0000",
		EmailAddr:    "alice@example.com",
		SearchText:   "invoice",
		MuseQuery:    `{"q":"invoice"}`,
		Description:  "search",
		SearchReason: "legal hold",
		Source:       "archive",
		SearchPath:   "/inbox",
	}
}

func TestFingerprint_WhenSameIdentityFields_ThenEqual(t *testing.T) {
	// Arrange
	a := sampleLog()
	b := sampleLog()
	b.Description = "different description"
	b.SearchReason = "different reason"
	b.Source = "other"
	b.IsAdmin = true
	b.Raw = json.RawMessage(`{"extra":true}`)

	// Act & Assert
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestFingerprint_WhenEmailCaseDiffers_ThenEqual(t *testing.T) {
	a := sampleLog()
	b := sampleLog()
	b.EmailAddr = "Alice@Example.COM"

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_WhenIdentityFieldDiffers_ThenDiffers(t *testing.T) {
	mutations := map[string]func(*SearchLog){
		"create time": func(s *SearchLog) { s.CreateTime = "2025-01-02T03:04:06+0000" },
		"email":       func(s *SearchLog) { s.EmailAddr = "bob@example.com" },
		"search text": func(s *SearchLog) { s.SearchText = "receipt" },
		"muse query":  func(s *SearchLog) { s.MuseQuery = "" },
		"search path": func(s *SearchLog) { s.SearchPath = "/sent" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			other := sampleLog()
			mutate(&other)
			assert.NotEqual(t, sampleLog().Fingerprint(), other.Fingerprint())
		})
	}
}

func TestFingerprint_WhenKnownInput_ThenMatchesJoinedHash(t *testing.T) {
	s := SearchLog{EmailAddr: "ALICE@example.com", CreateTime: "t", SearchText: "q"}

	sum := sha256.Sum256([]byte("alice@example.com|t|q||"))
	assert.Equal(t, hex.EncodeToString(sum[:]), s.Fingerprint())
}

func TestFingerprint_Property_DeterministicAndOnlyIdentityFields(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fingerprint ignores non-identity fields and email case", prop.ForAll(
		func(email, created, text, muse, path, desc, reason string) bool {
			a := SearchLog{EmailAddr: email, CreateTime: created, SearchText: text, MuseQuery: muse, SearchPath: path}
			b := a
			b.EmailAddr = strings.ToUpper(email)
			b.Description = desc
			b.SearchReason = reason
			b.IsAdmin = !a.IsAdmin
			return a.Fingerprint() == a.Fingerprint() && a.Fingerprint() == b.Fingerprint()
		},
		gen.AlphaString(), gen.AlphaString(), gen.AnyString(), gen.AnyString(),
		gen.AnyString(), gen.AnyString(), gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestUnmarshalJSON_WhenLooseTypes_ThenNormalizes(t *testing.T) {
	// Arrange
	payload := []byte(`{
		"createTime": "2025-01-02T03:04:05+0000",
		"emailAddr": "Alice@Example.com",
		"searchText": null,
		"museQuery": {"and": [{"q": "x"}]},
		"description": "d",
		"isAdmin": true,
		"searchPath": "/p",
		"unknownField": 7
	}`)

	// Act
	var s SearchLog
	err := json.Unmarshal(payload, &s)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", s.EmailAddr)
	assert.Equal(t, "", s.SearchText)
	assert.Equal(t, `{"and":[{"q":"x"}]}`, s.MuseQuery)
	assert.True(t, s.IsAdmin)
	assert.Contains(t, s.RawJSON(), `"unknownField":7`)
}

func TestUnmarshalJSON_WhenIsAdminMissing_ThenFalse(t *testing.T) {
	var s SearchLog
	require.NoError(t, json.Unmarshal([]byte(`{"emailAddr":"a@b.c"}`), &s))

	assert.False(t, s.IsAdmin)
}

func TestUnmarshalJSON_WhenIsAdminLooselyTyped_ThenReadByTruthiness(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`"true"`, true},
		{`"false"`, true},
		{`""`, false},
		{`1`, true},
		{`0`, false},
		{`[]`, false},
		{`{"x":1}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			var s SearchLog
			require.NoError(t, json.Unmarshal([]byte(`{"emailAddr":"a@b.c","isAdmin":`+tc.raw+`}`), &s))

			assert.Equal(t, tc.want, s.IsAdmin)
		})
	}
}

func TestNormalizedCreateTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-02T03:04:05+0000", "2025-01-02T03:04:05Z"},
		{"2025-01-02T05:04:05+0200", "2025-01-02T03:04:05Z"},
		{"2025-01-02T03:04:05.123Z", "2025-01-02T03:04:05Z"},
		{"2025-01-02T03:04:05Z", "2025-01-02T03:04:05Z"},
		{"not-a-time", "not-a-time"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchLog{CreateTime: tt.in}.NormalizedCreateTime())
		})
	}
}

func TestFormatStoredTime_WhenNonUTC_ThenConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)

	assert.Equal(t, "2025-01-01T23:00:00Z", FormatStoredTime(time.Date(2025, 1, 2, 0, 0, 0, 0, loc)))
}

func TestRawJSON_WhenBuiltInCode_ThenMarshalsFields(t *testing.T) {
	raw := sampleLog().RawJSON()

	assert.Contains(t, raw, `"emailAddr":"alice@example.com"`)
}
