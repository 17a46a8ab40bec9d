package supabase

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/platform/resilience"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
)

const (
	restPath        = "/rest/v1"
	defaultPageSize = 1000
	maxBodyBytes    = 8 << 20
)

var errStoreTransient = crerr.New("store transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	PageSize       int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to a PostgREST endpoint such as Supabase. Reads are retried
// with exponential backoff; mutations are sent once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	pageSize   int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if !strings.HasSuffix(baseURL, restPath) {
		baseURL += restPath
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: max(cfg.MaxRetries, 0),
		pageSize:   pageSize,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// selectAll pages through table until a short page comes back.
func selectAll[T any](ctx context.Context, c *Client, table string, query url.Values) ([]T, error) {
	out := make([]T, 0)
	for offset := 0; ; offset += c.pageSize {
		values := cloneValues(query)
		values.Set("limit", strconv.Itoa(c.pageSize))
		values.Set("offset", strconv.Itoa(offset))

		raw, err := c.read(ctx, http.MethodGet, table, values, nil)
		if err != nil {
			return nil, err
		}

		var page []T
		if err := sonic.Unmarshal(raw.body, &page); err != nil {
			return nil, crerr.Wrapf(err, "decode %s rows", table)
		}
		out = append(out, page...)
		if len(page) < c.pageSize {
			return out, nil
		}
	}
}

// count asks PostgREST for an exact row count without transferring rows.
func (c *Client) count(ctx context.Context, table string) (int, error) {
	values := url.Values{}
	values.Set("select", "id")
	raw, err := c.read(ctx, http.MethodHead, table, values, map[string]string{"Prefer": "count=exact"})
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(raw.header.Get("Content-Range"))
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) read(ctx context.Context, method, table string, query url.Values, headers map[string]string) (response, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "store circuit breaker rejected request", "table", table, "state", c.breaker.State())
		return response{}, fmt.Errorf("%w: store is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	resp, err := backoff.Retry(ctx, func() (response, error) {
		resp, err := c.execute(ctx, method, table, query, nil, headers)
		if err != nil && !isTransient(err) {
			return response{}, backoff.Permanent(err)
		}
		return resp, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(c.maxRetries)+1))
	c.record(err)
	if err != nil {
		c.logger.WarnContext(ctx, "store read failed", "table", table, "error", err)
		return response{}, err
	}
	return resp, nil
}

func (c *Client) write(ctx context.Context, method, table string, query url.Values, body any, headers map[string]string) (response, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "store circuit breaker rejected request", "table", table, "state", c.breaker.State())
		return response{}, fmt.Errorf("%w: store is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	var payload []byte
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return response{}, crerr.Wrapf(err, "encode %s payload", table)
		}
		payload = encoded
	}

	resp, err := c.execute(ctx, method, table, query, payload, headers)
	c.record(err)
	if err != nil {
		c.logger.WarnContext(ctx, "store write failed", "table", table, "method", method, "error", err)
		return response{}, err
	}
	return resp, nil
}

func (c *Client) execute(ctx context.Context, method, table string, query url.Values, payload []byte, headers map[string]string) (response, error) {
	fullURL := c.baseURL + "/" + table
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return response{}, crerr.Wrap(err, "build request")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, crerr.Wrapf(errStoreTransient, "send %s %s: %s", method, table, sanitize(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, crerr.Wrapf(errStoreTransient, "read %s response: %v", table, err)
	}

	out := response{status: resp.StatusCode, header: resp.Header, body: raw}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return out, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return out, crerr.Wrapf(errStoreTransient, "%s %s status=%d body=%s", method, table, resp.StatusCode, abbreviateBody(raw))
	}
	return out, &StatusError{Method: method, Table: table, Status: resp.StatusCode, Body: abbreviateBody(raw)}
}

func (c *Client) record(err error) {
	if err != nil && isTransient(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

// StatusError is a non-retryable response from the store.
type StatusError struct {
	Method string
	Table  string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s status=%d body=%s", e.Method, e.Table, e.Status, e.Body)
}

func isTransient(err error) bool {
	return err != nil && crerr.Is(err, errStoreTransient)
}

func isConflict(err error) bool {
	var statusErr *StatusError
	return stderrors.As(err, &statusErr) && statusErr.Status == http.StatusConflict
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func parseContentRangeTotal(header string) (int, error) {
	_, total, ok := strings.Cut(strings.TrimSpace(header), "/")
	if !ok || total == "" || total == "*" {
		return 0, crerr.Newf("content-range %q carries no total", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, crerr.Wrapf(err, "parse content-range total %q", header)
	}
	return n, nil
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in)+2)
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}

func sanitize(value, secret string) string {
	value = strings.TrimSpace(value)
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
