// Package translate populates transcript segments with machine translations.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// ErrRateLimited is returned when the translation service rejects a call for
// exceeding its quota.
var ErrRateLimited = errors.New("translation service rate limit exceeded")

// Client calls the DeepL HTTP API. It is stateless per call and safe for
// concurrent use across pipeline runs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
}

// NewClient builds a DeepL client for the given API base URL (for the free
// tier: https://api-free.deepl.com) and auth key.
func NewClient(baseURL, authKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		authKey:    authKey,
	}
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate sends one text through the service and returns the translated
// text. Source and target codes must come from their respective catalogs.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", sourceLang)
	form.Set("target_lang", targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call translation service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("translation service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", errors.New("translation service returned no translations")
	}
	return parsed.Translations[0].Text, nil
}
