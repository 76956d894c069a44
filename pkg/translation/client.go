package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"semantic-docs-be/internal/pkg/apperr"
)

const (
	providerName = "translation"
	windowLength = time.Minute
)

// Config carries the translation provider settings. FallbackKey is optional;
// when empty no failover attempt is made.
type Config struct {
	BaseURL             string
	PrimaryKey          string
	FallbackKey         string
	CharBudgetPerMinute int
}

// Client translates text through an external HTTP provider, respecting a
// per-minute character budget and failing over to a secondary credential on
// unauthorized, quota-exceeded or rate-limited responses.
type Client struct {
	baseURL     string
	primaryKey  string
	fallbackKey string
	window      *charWindow
	client      *http.Client
	now         func() time.Time
}

func NewClient(cfg Config) *Client {
	budget := cfg.CharBudgetPerMinute
	if budget <= 0 {
		budget = 33300
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		primaryKey:  cfg.PrimaryKey,
		fallbackKey: cfg.FallbackKey,
		window:      newCharWindow(budget, windowLength),
		client:      &http.Client{},
		now:         time.Now,
	}
}

type translateRequestItem struct {
	Text string `json:"Text"`
}

type translateResponseItem struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

type providerErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate translates text into the target language. An empty source language
// lets the provider detect it.
func (c *Client) Translate(ctx context.Context, text, to, from string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperr.NewValidation("text to translate must not be empty")
	}
	if to == "" {
		return "", apperr.NewValidation("target language must not be empty")
	}

	chars := len([]rune(text))
	if err := c.window.Wait(ctx, chars); err != nil {
		return "", err
	}

	translated, primaryErr := c.attempt(ctx, c.primaryKey, text, to, from, chars)
	if primaryErr == nil {
		return translated, nil
	}

	primary, eligible := classify(primaryErr)
	if !eligible {
		return "", primaryErr
	}
	if c.fallbackKey == "" {
		return "", primaryErr
	}

	translated, fallbackErr := c.attempt(ctx, c.fallbackKey, text, to, from, chars)
	if fallbackErr == nil {
		return translated, nil
	}

	fallback, eligible := classify(fallbackErr)
	if !eligible {
		return "", fallbackErr
	}

	return "", c.combinedError(primary, fallback)
}

// attempt issues one request with the given credential. The window lock is not
// held here; characters are recorded only on success.
func (c *Client) attempt(ctx context.Context, apiKey, text, to, from string, chars int) (string, error) {
	endpoint := fmt.Sprintf("%s/translate?to=%s", c.baseURL, url.QueryEscape(to))
	if from != "" {
		endpoint += "&from=" + url.QueryEscape(from)
	}

	jsonBody, err := json.Marshal([]translateRequestItem{{Text: text}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.statusError(resp.StatusCode, bodyBytes)
	}

	var items []translateResponseItem
	if err := json.Unmarshal(bodyBytes, &items); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(items) == 0 || len(items[0].Translations) == 0 {
		return "", apperr.NewProvider(providerName, resp.StatusCode, "empty translation response")
	}

	c.window.Record(chars)
	return items[0].Translations[0].Text, nil
}

// statusError parses a non-2xx body best-effort into a ProviderError with a
// retry or quota-reset hint.
func (c *Client) statusError(status int, body []byte) *apperr.ProviderError {
	message := strings.TrimSpace(string(body))
	var parsed providerErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	perr := apperr.NewProvider(providerName, status, message)
	switch status {
	case http.StatusTooManyRequests:
		perr.Hint = "rate limited, retry after the current one-minute window"
	case http.StatusForbidden:
		perr.Hint = fmt.Sprintf("quota exceeded, resets %s", nextQuotaReset(c.now()).Format("2006-01-02 15:04 MST"))
	case http.StatusUnauthorized:
		perr.Hint = "credential rejected, verify the subscription key"
	}
	return perr
}

// classify reports whether err is a provider error eligible for failover
// (unauthorized, forbidden/quota, rate limited).
func classify(err error) (*apperr.ProviderError, bool) {
	perr, ok := err.(*apperr.ProviderError)
	if !ok {
		return nil, false
	}
	switch perr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return perr, true
	}
	return perr, false
}

func (c *Client) combinedError(primary, fallback *apperr.ProviderError) *apperr.ProviderError {
	combined := apperr.NewProvider(
		providerName,
		fallback.StatusCode,
		fmt.Sprintf("primary credential failed (status %d: %s) and fallback credential failed (status %d: %s)",
			primary.StatusCode, primary.Message, fallback.StatusCode, fallback.Message),
	)
	if primary.StatusCode == http.StatusForbidden || fallback.StatusCode == http.StatusForbidden {
		combined.Hint = fmt.Sprintf("quota exceeded, resets %s", nextQuotaReset(c.now()).Format("2006-01-02 15:04 MST"))
	} else {
		combined.Hint = "retry after the current one-minute window"
	}
	return combined
}

// nextQuotaReset returns the first day of the following calendar month, UTC.
func nextQuotaReset(now time.Time) time.Time {
	year, month, _ := now.UTC().Date()
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
}
