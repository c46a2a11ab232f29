// Package billingapi is the HTTP transport to the remote billing service.
package billingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"clinic-billing/internal/domain/billing"
	"clinic-billing/internal/domain/plans"
)

const (
	DefaultTimeout = 15 * time.Second

	pathPlan          = "/api/billing/plan"
	pathUpgrade       = "/api/billing/upgrade"
	pathCancel        = "/api/billing/cancel"
	pathResume        = "/api/billing/resume"
	pathPaymentMethod = "/api/billing/payment-method"

	maxErrorBody = 64 << 10
)

// Client implements billing.API over HTTP. Each call carries the bearer
// token of the TokenSource it was built with.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	timeout time.Duration
	base    http.RoundTripper
}

var _ billing.API = (*Client)(nil)

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport replaces the underlying round tripper (default
// http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// New builds a client for baseURL. ts supplies the session's access token.
func New(baseURL string, ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{
		Timeout: c.timeout,
		Transport: otelhttp.NewTransport(
			&oauth2.Transport{Source: ts, Base: c.base},
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "billingapi " + r.Method + " " + r.URL.Path
			}),
		),
	}
	return c
}

func (c *Client) GetCurrentPlan(ctx context.Context) (plans.RawSnapshot, error) {
	var raw plans.RawSnapshot
	err := c.do(ctx, http.MethodGet, pathPlan, nil, &raw)
	return raw, err
}

func (c *Client) Upgrade(ctx context.Context, req billing.UpgradeRequest) (billing.UpgradeResult, error) {
	var res billing.UpgradeResult
	err := c.do(ctx, http.MethodPost, pathUpgrade, req, &res)
	return res, err
}

type cancelResponse struct {
	EffectiveDate any  `json:"effectiveDate"`
	Immediate     bool `json:"immediate"`
}

// Cancel normalizes the returned effective date the same way plan dates are.
func (c *Client) Cancel(ctx context.Context, req billing.CancelRequest) (billing.CancelResult, error) {
	var res cancelResponse
	if err := c.do(ctx, http.MethodPost, pathCancel, req, &res); err != nil {
		return billing.CancelResult{}, err
	}
	return billing.CancelResult{
		EffectiveDate: plans.NormalizeDate(res.EffectiveDate),
		Immediate:     res.Immediate,
	}, nil
}

func (c *Client) Resume(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathResume, struct{}{}, nil)
}

func (c *Client) UpdatePaymentMethod(ctx context.Context) (billing.PaymentMethodResult, error) {
	var res billing.PaymentMethodResult
	err := c.do(ctx, http.MethodPost, pathPaymentMethod, struct{}{}, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("billingapi: encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("billingapi: build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("billing api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("billingapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("billing api response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("billingapi: decode %s: %w", path, err)
	}
	return nil
}
