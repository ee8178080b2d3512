// Package remote talks to the storefront API.
package remote

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

	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/requestid"
	"github.com/angelmondragon/storefront/pkg/types"
)

const maxBodyBytes = 4 << 20

// Client is a typed client for the storefront API. Every method makes exactly one attempt.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewClient builds a client rooted at cfg.Endpoint. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg config.RemoteConfig, httpClient *http.Client, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid remote endpoint %q: %w", cfg.Endpoint, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{baseURL: u, http: httpClient, logg: logg, metrics: m}, nil
}

// ListProducts calls GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.do(ctx, "products.list", http.MethodGet, "products", nil, "", nil, &products); err != nil {
		return nil, err
	}
	if err := types.ValidateAll(products); err != nil {
		return nil, malformed(err)
	}
	return products, nil
}

// SearchProducts calls GET /products/search?value=<text>.
func (c *Client) SearchProducts(ctx context.Context, text string) ([]types.Product, error) {
	query := url.Values{"value": []string{text}}
	var products []types.Product
	if err := c.do(ctx, "products.search", http.MethodGet, "products/search", query, "", nil, &products); err != nil {
		return nil, err
	}
	if err := types.ValidateAll(products); err != nil {
		return nil, malformed(err)
	}
	return products, nil
}

// GetCart calls GET /cart with bearer auth.
func (c *Client) GetCart(ctx context.Context, token string) ([]types.CartEntry, error) {
	var entries []types.CartEntry
	if err := c.do(ctx, "cart.get", http.MethodGet, "cart", nil, token, nil, &entries); err != nil {
		return nil, err
	}
	if err := types.ValidateAll(entries); err != nil {
		return nil, malformed(err)
	}
	return entries, nil
}

// UpdateCart calls POST /cart and returns the full updated cart.
func (c *Client) UpdateCart(ctx context.Context, token, productID string, qty int) ([]types.CartEntry, error) {
	body := types.CartUpdate{ProductID: productID, Qty: qty}
	var entries []types.CartEntry
	if err := c.do(ctx, "cart.update", http.MethodPost, "cart", nil, token, body, &entries); err != nil {
		return nil, err
	}
	if err := types.ValidateAll(entries); err != nil {
		return nil, malformed(err)
	}
	return entries, nil
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	body := types.LoginRequest{Username: username, Password: password}
	var resp types.LoginResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "auth/login", nil, "", body, &resp); err != nil {
		return nil, err
	}
	if err := types.Validate(&resp); err != nil {
		return nil, malformed(err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, call, method, path string, query url.Values, token string, in, out any) error {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	u := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveRemote(call, time.Since(started))
	if err != nil {
		c.logg.Error(c.logg.WithField(ctx, "call", call), "remote call failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyFailure(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(err)
	}
	return nil
}

// classifyFailure turns a non-2xx response into a rejection when the API explained itself
// with a 4xx message, and into a connectivity failure otherwise.
func classifyFailure(status int, raw []byte) error {
	var apiErr types.APIError
	decodeErr := json.Unmarshal(raw, &apiErr)
	details := map[string]any{"status": status}

	if status >= 400 && status < 500 && decodeErr == nil && apiErr.Message != "" {
		code := pkgerrors.CodeRejected
		if status == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return pkgerrors.New(code, apiErr.Message).WithDetails(details)
	}
	cause := fmt.Errorf("unexpected status %d", status)
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "").WithDetails(details)
}

func malformed(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("malformed response: %w", err), "")
}

// Status returns the HTTP status recorded on a remote error, or 0.
func Status(err error) int {
	typed := pkgerrors.As(err)
	if typed == nil {
		return 0
	}
	if details, ok := typed.Details().(map[string]any); ok {
		if status, ok := details["status"].(int); ok {
			return status
		}
	}
	return 0
}
