// Package mintme is the MintMe exchange adapter. Every call performs exactly
// one HTTP round trip; nothing is retried.
package mintme

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/markets"
	"mintme-bridge/internal/model"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.mintme.com/dev/api/v2"

	DefaultOffset = 0
	DefaultLimit  = 100

	headerAPIID  = "X-API-ID"
	headerAPIKey = "X-API-KEY"
)

var _ broker.Adapter = (*Client)(nil)

type Config struct {
	PublicURL  string
	PrivateURL string
	PublicKey  string
	PrivateKey string

	// MinInterval spaces outbound requests. Zero disables pacing.
	MinInterval time.Duration
	// Timeout bounds a single request. Zero keeps the transport default.
	Timeout time.Duration

	HTTPClient *http.Client
}

type Client struct {
	publicURL  string
	privateURL string
	publicKey  string
	privateKey string

	http    *resty.Client
	limiter *rate.Limiter

	mu      sync.RWMutex
	markets markets.Catalog
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.PublicKey) == "" || strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = DefaultBaseURL
	}
	if cfg.PrivateURL == "" {
		cfg.PrivateURL = DefaultBaseURL
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	rc.SetHeader("Accept", "application/json")

	c := &Client{
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		privateURL: strings.TrimRight(cfg.PrivateURL, "/"),
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		http:       rc,
		markets:    markets.Catalog{},
	}
	if cfg.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return c, nil
}

// LoadMarkets populates the catalog from the static table and returns it.
func (c *Client) LoadMarkets() markets.Catalog {
	catalog := markets.Load()
	c.mu.Lock()
	c.markets = catalog
	c.mu.Unlock()
	return maps.Clone(catalog)
}

// Markets returns the catalog loaded so far; it is empty before LoadMarkets.
func (c *Client) Markets() markets.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.markets)
}

func (c *Client) FetchAssets(ctx context.Context) (broker.Result, error) {
	const op = "fetchAssets"
	resp, err := c.do(ctx, op, c.http.R().SetContext(ctx), http.MethodGet, c.publicURL+"/open/assets")
	if err != nil {
		return broker.Result{}, err
	}
	if resp.StatusCode() != http.StatusOK {
		return broker.Result{}, remoteError(op, resp)
	}
	return resultOf(resp), nil
}

func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (broker.Result, error) {
	const op = "createOrder"
	r := c.private(ctx).SetBody(req.Wire())
	resp, err := c.do(ctx, op, r, http.MethodPost, c.privateURL+"/auth/user/orders")
	if err != nil {
		return broker.Result{}, err
	}
	return privateResult(op, resp)
}

func (c *Client) FetchActiveOrders(ctx context.Context, offset, limit int) (broker.Result, error) {
	return c.fetchOrders(ctx, "fetchActiveOrders", "active", offset, limit)
}

func (c *Client) FetchFinishedOrders(ctx context.Context, offset, limit int) (broker.Result, error) {
	return c.fetchOrders(ctx, "fetchFinishedOrders", "finished", offset, limit)
}

func (c *Client) fetchOrders(ctx context.Context, op, state string, offset, limit int) (broker.Result, error) {
	if offset < 0 || limit <= 0 {
		return broker.Result{}, ErrInvalidPagination
	}
	// The query is written out by hand so that offset precedes limit.
	url := fmt.Sprintf("%s/auth/user/orders/%s?offset=%d&limit=%d", c.privateURL, state, offset, limit)
	resp, err := c.do(ctx, op, c.private(ctx), http.MethodGet, url)
	if err != nil {
		return broker.Result{}, err
	}
	return privateResult(op, resp)
}

func (c *Client) private(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			headerAPIID:  c.publicKey,
			headerAPIKey: c.privateKey,
		})
}

func (c *Client) do(ctx context.Context, op string, r *resty.Request, method, url string) (*resty.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
	}
	resp, err := r.Execute(method, url)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// privateResult applies the authenticated-endpoint policy: a structured error
// payload is a normal result, a bare error status is not.
func privateResult(op string, resp *resty.Response) (broker.Result, error) {
	if resp.IsSuccess() {
		return resultOf(resp), nil
	}
	if !hasJSONBody(resp.Body()) {
		return broker.Result{}, remoteError(op, resp)
	}
	return resultOf(resp), nil
}

func resultOf(resp *resty.Response) broker.Result {
	body := bytes.TrimSpace(resp.Body())
	out := make(json.RawMessage, len(body))
	copy(out, body)
	return broker.Result{StatusCode: resp.StatusCode(), Body: out}
}

func hasJSONBody(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && json.Valid(body)
}

func remoteError(op string, resp *resty.Response) *RemoteError {
	return &RemoteError{
		Op:         op,
		StatusCode: resp.StatusCode(),
		Status:     http.StatusText(resp.StatusCode()),
	}
}
