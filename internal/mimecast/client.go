// Package mimecast fetches archive search logs from the Mimecast API 2.0.
package mimecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
)

const searchLogsPath = "/api/archive/get-archive-search-logs"

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Config holds connection settings for the remote API.
type Config struct {
	TokenURL          string
	BaseURL           string
	ClientID          string
	ClientSecret      string
	PageSize          int
	RequestsPerSecond float64 // 0 disables pacing
	Timeout           time.Duration
}

// Client talks to the archive search-log endpoint. A fresh token is
// requested for every FetchSearchLogs call; pages are fetched one at a time.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

// NewClient builds a Client. Pass a nil httpClient to use one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger logging.Logger) *Client {
	if cfg.PageSize < 1 {
		cfg.PageSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger.With(zap.String("component", "mimecast")),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", faults.Auth("build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", faults.Auth("token exchange", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", faults.Auth("token exchange", fmt.Errorf("status %d: %s", resp.StatusCode, readSnippet(resp.Body)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", faults.Auth("decode token response", err)
	}
	if tr.AccessToken == "" {
		return "", faults.Auth("token exchange", errors.New("no access_token in response"))
	}
	return tr.AccessToken, nil
}

type pageRequest struct {
	Meta struct {
		Pagination struct {
			PageSize  int    `json:"pageSize"`
			PageToken string `json:"pageToken,omitempty"`
		} `json:"pagination"`
	} `json:"meta"`
	Data []timeRange `json:"data"`
}

type timeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type pageResponse struct {
	Meta struct {
		Pagination struct {
			Next       string `json:"next"`
			TotalCount *int   `json:"totalCount"`
		} `json:"pagination"`
	} `json:"meta"`
	Data []struct {
		Logs []models.SearchLog `json:"logs"`
	} `json:"data"`
	Fail []json.RawMessage `json:"fail"`
}

// FetchSearchLogs returns every record between start and end, following
// continuation tokens until none is returned. Any failure aborts the whole
// fetch; a partial result is never returned.
func (c *Client) FetchSearchLogs(ctx context.Context, start, end time.Time) ([]models.SearchLog, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	window := timeRange{
		From: start.UTC().Format(time.RFC3339),
		To:   end.UTC().Format(time.RFC3339),
	}

	var (
		all       []models.SearchLog
		pageToken string
		total     *int
	)
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, faults.Transport("rate limit wait", 0, err)
		}

		c.logger.Debug("requesting search log page",
			zap.String("from", window.From),
			zap.String("to", window.To),
			zap.Int("page", page),
			zap.Bool("has_page_token", pageToken != ""),
		)

		body, err := c.fetchPage(ctx, token, window, pageToken)
		if err != nil {
			return nil, err
		}

		var logs []models.SearchLog
		if len(body.Data) > 0 {
			logs = body.Data[0].Logs
		}
		all = append(all, logs...)

		if total == nil {
			total = body.Meta.Pagination.TotalCount
		}
		fields := []zap.Field{
			zap.Int("page", page),
			zap.Int("page_records", len(logs)),
			zap.Int("records_so_far", len(all)),
		}
		if total != nil {
			fields = append(fields, zap.Int("total_count", *total))
		}
		c.logger.Info("fetched search log page", fields...)

		pageToken = body.Meta.Pagination.Next
		if pageToken == "" {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, token string, window timeRange, pageToken string) (*pageResponse, error) {
	var reqBody pageRequest
	reqBody.Meta.Pagination.PageSize = c.cfg.PageSize
	reqBody.Meta.Pagination.PageToken = pageToken
	reqBody.Data = []timeRange{window}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal page request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+searchLogsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, faults.Transport("build page request", 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, faults.Transport("fetch page", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, faults.Transport("fetch page", resp.StatusCode, errors.New(readSnippet(resp.Body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Transport("read page", resp.StatusCode, err)
	}
	if err := validatePage(raw); err != nil {
		return nil, faults.Transport("validate page", resp.StatusCode, err)
	}

	var body pageResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, faults.Transport("decode page", resp.StatusCode, err)
	}
	if len(body.Fail) > 0 {
		return nil, faults.Transport("fetch page", resp.StatusCode, fmt.Errorf("remote reported failures: %s", joinRaw(body.Fail)))
	}
	return &body, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}

func joinRaw(items []json.RawMessage) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}
