package economic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soerenkp/ecosync/internal/apperrors"
)

const (
	headerAppSecretToken      = "X-AppSecretToken"
	headerAgreementGrantToken = "X-AgreementGrantToken"

	// DefaultTimeout bounds every outbound call; there is no retry and no
	// mid-operation cancellation beyond the request context.
	DefaultTimeout = 10 * time.Second
)

// ClientConfig carries the app-level settings shared by all agreement clients.
type ClientConfig struct {
	BaseURL        string
	AppSecretToken string
	Timeout        time.Duration
}

// Client is an HTTP client bound to exactly one agreement's grant token at
// construction time. There is no global credential state: multi-tenant
// isolation is structural, one Client per agreement.
type Client struct {
	baseURL    string
	appSecret  string
	grantToken string
	http       *http.Client
}

// NewClient builds a client for one agreement grant token.
func NewClient(cfg ClientConfig, grantToken string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appSecret:  cfg.AppSecretToken,
		grantToken: grantToken,
		http:       &http.Client{Timeout: timeout},
	}
}

// Get performs one GET against the remote API and returns the raw body.
// Non-2xx responses return *apperrors.RemoteAPIError with the body preserved;
// transport failures are wrapped and returned as-is. Nothing is retried.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}
	return c.getURL(ctx, endpoint)
}

func (c *Client) getURL(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build remote request: %w", err)
	}
	req.Header.Set(headerAppSecretToken, c.appSecret)
	req.Header.Set(headerAgreementGrantToken, c.grantToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return json.RawMessage(body), nil
}

// FetchAllPages follows the collection envelope's nextPage cursor until a
// response arrives without one, and returns all records in page order.
// The server owns the page count; the loop never assumes a fixed number of
// pages and stops on the first envelope lacking a cursor.
func (c *Client) FetchAllPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	var records []json.RawMessage
	for endpoint != "" {
		body, err := c.getURL(ctx, endpoint)
		if err != nil {
			return records, err
		}
		var envelope collectionEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return records, fmt.Errorf("failed to decode collection envelope: %w", err)
		}
		records = append(records, envelope.Collection...)
		endpoint = envelope.Pagination.NextPage
	}
	return records, nil
}

// SelfInfo fetches /self. This is a full network round-trip; callers must not
// invoke it more than once per sync pass.
func (c *Client) SelfInfo(ctx context.Context) (SelfInfo, error) {
	body, err := c.Get(ctx, "/self", nil)
	if err != nil {
		return SelfInfo{}, err
	}
	var info SelfInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return SelfInfo{}, fmt.Errorf("failed to decode self info: %w", err)
	}
	return info, nil
}
