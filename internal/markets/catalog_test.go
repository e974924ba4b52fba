package markets

import (
	"strings"
	"testing"

	"mintme-bridge/internal/model"
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

func TestLoad_Symbols(t *testing.T) {
	catalog := Load()
	want := []string{"BTC/USD", "BTC/WETH", "ETH/USD", "ETH/WETH", "MINTME/BTC", "MINTME/ETH"}
	got := catalog.Symbols()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for symbol, m := range catalog {
		if m.Base+"/"+m.Quote != symbol {
			t.Errorf("%s: base/quote = %s/%s", symbol, m.Base, m.Quote)
		}
		if m.ID != strings.ToLower(m.Base)+"-"+strings.ToLower(m.Quote) {
			t.Errorf("%s: id = %s", symbol, m.ID)
		}
		if !m.Active || m.Type != "spot" {
			t.Errorf("%s: active=%v type=%s", symbol, m.Active, m.Type)
		}
		if m.Limits.Amount.Max != nil || m.Limits.Price.Max != nil || m.Limits.Cost.Max != nil {
			t.Errorf("%s: unexpected maximum limit", symbol)
		}
	}
}

func TestLoad_Deterministic(t *testing.T) {
	a, b := Load(), Load()
	if len(a) != len(b) {
		t.Fatalf("sizes differ: %d vs %d", len(a), len(b))
	}
	for s, m := range a {
		n := b[s]
		if m.ID != n.ID || m.Precision != n.Precision || !m.Limits.Price.Min.Equal(n.Limits.Price.Min) {
			t.Errorf("%s differs between loads", s)
		}
	}
}

func TestLoad_Precision(t *testing.T) {
	catalog := Load()
	tests := []struct {
		symbol    string
		price     int32
		minPrice  string
		minCost   string
		minAmount string
	}{
		{"BTC/USD", 2, "0.01", "0.01", "0.0001"},
		{"ETH/USD", 2, "0.01", "0.01", "0.0001"},
		{"MINTME/ETH", 8, "0.00000001", "0.0001", "0.0001"},
		{"BTC/WETH", 8, "0.00000001", "0.0001", "0.0001"},
	}
	for _, tt := range tests {
		m, ok := catalog[tt.symbol]
		if !ok {
			t.Fatalf("missing %s", tt.symbol)
		}
		if m.Precision.Amount != 8 || m.Precision.Price != tt.price {
			t.Errorf("%s precision = %+v", tt.symbol, m.Precision)
		}
		if m.Limits.Price.Min.String() != tt.minPrice {
			t.Errorf("%s min price = %s, want %s", tt.symbol, m.Limits.Price.Min, tt.minPrice)
		}
		if m.Limits.Cost.Min.String() != tt.minCost {
			t.Errorf("%s min cost = %s, want %s", tt.symbol, m.Limits.Cost.Min, tt.minCost)
		}
		if m.Limits.Amount.Min.String() != tt.minAmount {
			t.Errorf("%s min amount = %s, want %s", tt.symbol, m.Limits.Amount.Min, tt.minAmount)
		}
	}
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := Load()
	if _, ok := catalog.Lookup("BTC", "USD"); !ok {
		t.Error("Lookup(BTC, USD) not found")
	}
	if _, ok := catalog.Lookup("btc", "usd"); ok {
		t.Error("Lookup is expected to be case-sensitive")
	}
	if _, ok := catalog.Lookup("LAGX", "MINTME"); ok {
		t.Error("Lookup(LAGX, MINTME) unexpectedly found")
	}
}

func TestMarket_Validate(t *testing.T) {
	btcUSD := Load()["BTC/USD"]
	d := decimal.RequireFromString

	tests := []struct {
		name    string
		order   model.OrderRequest
		wantErr string
	}{
		{
			name:  "valid limit order",
			order: model.OrderRequest{Base: "BTC", Quote: "USD", Price: d("65000.12"), Amount: d("0.5"), Side: types.OrderSideBuy},
		},
		{
			name:    "amount below minimum",
			order:   model.OrderRequest{Price: d("100"), Amount: d("0.00001"), Side: types.OrderSideBuy},
			wantErr: "amount",
		},
		{
			name:    "amount too precise",
			order:   model.OrderRequest{Price: d("100"), Amount: d("0.123456789"), Side: types.OrderSideBuy},
			wantErr: "decimal places",
		},
		{
			name:    "price too precise",
			order:   model.OrderRequest{Price: d("100.001"), Amount: d("1"), Side: types.OrderSideSell},
			wantErr: "decimal places",
		},
		{
			name:    "price below minimum",
			order:   model.OrderRequest{Price: d("0"), Amount: d("1"), Side: types.OrderSideSell},
			wantErr: "price",
		},
		{
			name:    "cost below minimum",
			order:   model.OrderRequest{Price: d("0.01"), Amount: d("0.0001"), Side: types.OrderSideSell},
			wantErr: "cost",
		},
		{
			name:  "market order skips price checks",
			order: model.OrderRequest{MarketPrice: true, Amount: d("0.0001"), Side: types.OrderSideSell},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := btcUSD.Validate(tt.order)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
