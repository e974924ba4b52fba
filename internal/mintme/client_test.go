package mintme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/model"
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		PublicURL:  url,
		PrivateURL: url,
		PublicKey:  "pub-id",
		PrivateKey: "priv-secret",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "valid", cfg: Config{PublicKey: "a", PrivateKey: "b"}},
		{name: "missing public key", cfg: Config{PrivateKey: "b"}, wantErr: ErrMissingCredentials},
		{name: "missing private key", cfg: Config{PublicKey: "a"}, wantErr: ErrMissingCredentials},
		{name: "blank keys", cfg: Config{PublicKey: " ", PrivateKey: "\t"}, wantErr: ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewClient() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if c.publicURL != DefaultBaseURL || c.privateURL != DefaultBaseURL {
					t.Errorf("base urls = %q, %q, want defaults", c.publicURL, c.privateURL)
				}
			}
		})
	}
}

func TestClient_LoadMarkets(t *testing.T) {
	c := newTestClient(t, "http://unused")
	if got := len(c.Markets()); got != 0 {
		t.Fatalf("Markets() before load has %d entries, want 0", got)
	}
	loaded := c.LoadMarkets()
	if len(loaded) != 6 {
		t.Fatalf("LoadMarkets() returned %d markets, want 6", len(loaded))
	}
	if _, ok := c.Markets()["MINTME/BTC"]; !ok {
		t.Error("Markets() missing MINTME/BTC after load")
	}
}

func TestClient_FetchAssets(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantStatus int
	}{
		{name: "ok", status: http.StatusOK, body: `{"MINTME":{"maker_fee":"0.002"}}`},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true, wantStatus: 500},
		{name: "not found", status: http.StatusNotFound, wantErr: true, wantStatus: 404},
		{name: "created is not ok", status: http.StatusCreated, body: `{}`, wantErr: true, wantStatus: 201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/open/assets" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get(headerAPIID) != "" || r.Header.Get(headerAPIKey) != "" {
					t.Error("public request carried credentials")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res, err := newTestClient(t, server.URL).FetchAssets(context.Background())
			if tt.wantErr {
				var remote *RemoteError
				if !errors.As(err, &remote) {
					t.Fatalf("FetchAssets() error = %v, want RemoteError", err)
				}
				if remote.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", remote.StatusCode, tt.wantStatus)
				}
				if remote.Status != http.StatusText(tt.wantStatus) {
					t.Errorf("Status = %q, want %q", remote.Status, http.StatusText(tt.wantStatus))
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchAssets() error = %v", err)
			}
			var assets map[string]map[string]string
			if err := res.Decode(&assets); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if assets["MINTME"]["maker_fee"] != "0.002" {
				t.Errorf("assets = %v", assets)
			}
		})
	}
}

func TestClient_CreateOrder(t *testing.T) {
	order := model.OrderRequest{
		Base:   "LAGX",
		Quote:  "MINTME",
		Price:  decimal.RequireFromString("5"),
		Amount: decimal.RequireFromString("12.33"),
		Side:   types.OrderSideBuy,
	}

	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantBusiness bool
		wantCode     string
		wantMessage  string
	}{
		{
			name:     "accepted",
			status:   http.StatusCreated,
			body:     `{"result": 1, "orderId": 991}`,
			wantCode: "1",
		},
		{
			name:         "insufficient balance is a result",
			status:       http.StatusPaymentRequired,
			body:         `{"result": 3, "message": "Insufficient Balance"}`,
			wantBusiness: true,
			wantCode:     "3",
			wantMessage:  "Insufficient Balance",
		},
		{
			name:    "empty server error",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "non json error body",
			status:  http.StatusBadGateway,
			body:    "<html>bad gateway</html>",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/auth/user/orders" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get(headerAPIID) != "pub-id" || r.Header.Get(headerAPIKey) != "priv-secret" {
					t.Error("credential headers not set")
				}
				raw, _ := io.ReadAll(r.Body)
				var body map[string]any
				if err := json.Unmarshal(raw, &body); err != nil {
					t.Errorf("request body is not json: %v", err)
				}
				want := map[string]any{
					"base":           "LAGX",
					"quote":          "MINTME",
					"priceInput":     "5",
					"amountInput":    "12.33",
					"donationAmount": "0",
					"marketPrice":    false,
					"action":         "buy",
				}
				for k, v := range want {
					if body[k] != v {
						t.Errorf("body[%q] = %v, want %v", k, body[k], v)
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res, err := newTestClient(t, server.URL).CreateOrder(context.Background(), order)
			if tt.wantErr {
				var remote *RemoteError
				if !errors.As(err, &remote) {
					t.Fatalf("CreateOrder() error = %v, want RemoteError", err)
				}
				if remote.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", remote.StatusCode, tt.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateOrder() error = %v", err)
			}
			if res.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", res.StatusCode, tt.status)
			}
			if res.IsBusinessFailure() != tt.wantBusiness {
				t.Errorf("IsBusinessFailure() = %v, want %v", res.IsBusinessFailure(), tt.wantBusiness)
			}
			if res.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q", res.Code(), tt.wantCode)
			}
			if res.Message() != tt.wantMessage {
				t.Errorf("Message() = %q, want %q", res.Message(), tt.wantMessage)
			}
		})
	}
}

func TestClient_CreateOrder_MarketPrice(t *testing.T) {
	var got model.WireOrder
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":1}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).CreateOrder(context.Background(), model.OrderRequest{
		Base:        "MINTME",
		Quote:       "BTC",
		Price:       decimal.RequireFromString("9"),
		MarketPrice: true,
		Amount:      decimal.RequireFromString("1"),
		Donation:    decimal.RequireFromString("0.5"),
		Side:        types.OrderSideSell,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if !got.MarketPrice || got.PriceInput != "0" || got.DonationAmount != "0.5" || got.Action != "sell" {
		t.Errorf("wire order = %+v", got)
	}
}

func TestClient_FetchOrders(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client, offset, limit int) error
		offset    int
		limit     int
		wantPath  string
		wantQuery string
	}{
		{
			name: "active defaults",
			call: func(c *Client, o, l int) error {
				_, err := c.FetchActiveOrders(context.Background(), o, l)
				return err
			},
			offset:    DefaultOffset,
			limit:     DefaultLimit,
			wantPath:  "/auth/user/orders/active",
			wantQuery: "offset=0&limit=100",
		},
		{
			name: "finished page",
			call: func(c *Client, o, l int) error {
				_, err := c.FetchFinishedOrders(context.Background(), o, l)
				return err
			},
			offset:    20,
			limit:     10,
			wantPath:  "/auth/user/orders/finished",
			wantQuery: "offset=20&limit=10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("method = %s, want GET", r.Method)
				}
				if r.URL.Path != tt.wantPath {
					t.Errorf("path = %s, want %s", r.URL.Path, tt.wantPath)
				}
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("query = %s, want %s", r.URL.RawQuery, tt.wantQuery)
				}
				if r.Header.Get(headerAPIID) != "pub-id" || r.Header.Get(headerAPIKey) != "priv-secret" {
					t.Error("credential headers not set")
				}
				_, _ = w.Write([]byte(`[]`))
			}))
			defer server.Close()

			if err := tt.call(newTestClient(t, server.URL), tt.offset, tt.limit); err != nil {
				t.Fatalf("call error = %v", err)
			}
		})
	}
}

func TestClient_FetchOrders_ErrorPolicy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/user/orders/active":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()
	c := newTestClient(t, server.URL)

	res, err := c.FetchActiveOrders(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("FetchActiveOrders() error = %v", err)
	}
	if !res.IsBusinessFailure() || res.Message() != "Invalid API key" {
		t.Errorf("result = %+v", res)
	}

	_, err = c.FetchFinishedOrders(context.Background(), 0, 100)
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("FetchFinishedOrders() error = %v, want 503 RemoteError", err)
	}
}

func TestClient_FetchOrders_InvalidPagination(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()
	c := newTestClient(t, server.URL)

	cases := [][2]int{{-1, 100}, {0, 0}, {0, -5}}
	for _, pc := range cases {
		if _, err := c.FetchActiveOrders(context.Background(), pc[0], pc[1]); !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("FetchActiveOrders(%d, %d) error = %v, want ErrInvalidPagination", pc[0], pc[1], err)
		}
		if _, err := c.FetchFinishedOrders(context.Background(), pc[0], pc[1]); !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("FetchFinishedOrders(%d, %d) error = %v, want ErrInvalidPagination", pc[0], pc[1], err)
		}
	}
	if hits != 0 {
		t.Errorf("server received %d requests, want 0", hits)
	}
}

func TestClient_FetchOrders_Idempotent(t *testing.T) {
	store := `[{"id":1,"base":"LAGX","quote":"MINTME","action":"buy"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(store))
	}))
	defer server.Close()
	c := newTestClient(t, server.URL)

	for name, fetch := range map[string]func(context.Context, int, int) (broker.Result, error){
		"active":   c.FetchActiveOrders,
		"finished": c.FetchFinishedOrders,
	} {
		first, err := fetch(context.Background(), 0, 100)
		if err != nil {
			t.Fatalf("%s: first call error = %v", name, err)
		}
		second, err := fetch(context.Background(), 0, 100)
		if err != nil {
			t.Fatalf("%s: second call error = %v", name, err)
		}
		if first.StatusCode != second.StatusCode || !bytes.Equal(first.Body, second.Body) {
			t.Errorf("%s: results differ: %s vs %s", name, first.Body, second.Body)
		}
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url)
	_, err := c.FetchAssets(context.Background())
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("FetchAssets() error = %v, want TransportError", err)
	}
	if transport.Op != "fetchAssets" {
		t.Errorf("Op = %q, want fetchAssets", transport.Op)
	}
}

func TestClient_PacerHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{
		PublicURL:   server.URL,
		PrivateURL:  server.URL,
		PublicKey:   "a",
		PrivateKey:  "b",
		MinInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := c.FetchAssets(context.Background()); err != nil {
		t.Fatalf("first FetchAssets() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.FetchAssets(ctx)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("second FetchAssets() error = %v, want TransportError", err)
	}
}
