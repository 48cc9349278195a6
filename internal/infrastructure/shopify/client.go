package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/componentadmin/backend/internal/domain/shared"
	"github.com/componentadmin/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed GraphQL response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// graphQLRequest is the Admin API request envelope
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the Admin API response envelope
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// graphQLError is one top-level GraphQL error
type graphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// userError is one mutation-level user error. The message text is passed
// through to callers untouched.
type userError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// Client talks to the vendor's GraphQL Admin API. Credentials are read
// once at construction; a client built without them refuses every call
// with shared.ErrNotConfigured instead of sending a doomed request.
type Client struct {
	cfg        config.VendorConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Admin API client. httpClient may be nil.
func NewClient(cfg config.VendorConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether the client holds usable credentials
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// graphql posts one GraphQL document and decodes the data payload into
// out. Throttled and transient failures are retried with exponential
// backoff; user errors inside mutation payloads are the caller's to
// inspect.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]any, out any) error {
	if !c.cfg.Configured() {
		return shared.ErrNotConfigured
	}

	payload := graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	var resp graphQLResponse
	maxAttempts := c.cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; ; attempt++ {
		raw, err := c.doRequest(ctx, bytes.NewReader(body))
		if err == nil {
			resp = graphQLResponse{}
			if err = json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("decode graphql response: %w", err)
			}
			if len(resp.Errors) == 0 {
				break
			}
			if !isThrottleError(resp.Errors) || attempt >= maxAttempts-1 {
				return shared.NewDomainError("VENDOR_ERROR", formatGraphQLErrors(resp.Errors))
			}
		} else {
			if !isRetryableHTTPError(err) || attempt >= maxAttempts-1 {
				return vendorTransportError(err)
			}
		}

		delay := retryDelay(attempt)
		c.logger.Warn("vendor request throttled, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))
		if err := sleepWithContext(ctx, delay); err != nil {
			return err
		}
	}

	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 {
		return shared.NewDomainError("VENDOR_ERROR", "graphql response missing data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// doRequest sends one HTTP request to the Admin API endpoint
func (c *Client) doRequest(ctx context.Context, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLEndpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("build vendor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read vendor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPStatusError(resp.StatusCode, resp.Status, raw)
	}
	return raw, nil
}

// userErrorsToError folds mutation user errors into a single domain
// error. Vendor messages are preserved verbatim.
func userErrorsToError(action string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Field) > 0 {
			msg = fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), msg)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return shared.NewDomainError("VENDOR_ERROR", action+" failed with user errors")
	}
	return shared.NewDomainError("VENDOR_ERROR", action+" failed: "+strings.Join(parts, "; "))
}

func formatGraphQLErrors(errs []graphQLError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s (path: %v)", msg, e.Path)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(parts, "; ")
}
