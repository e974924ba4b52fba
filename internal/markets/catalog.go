// Package markets holds the static table of MintMe trading pairs and the
// trading limits attached to each of them.
package markets

import (
	"fmt"
	"sort"
	"strings"

	"mintme-bridge/internal/model"

	"github.com/shopspring/decimal"
)

// MinMax is a trading limit. A nil Max means unbounded.
type MinMax struct {
	Min decimal.Decimal  `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

func (m MinMax) allows(v decimal.Decimal) bool {
	if v.LessThan(m.Min) {
		return false
	}
	return m.Max == nil || !v.GreaterThan(*m.Max)
}

type Limits struct {
	Amount MinMax `json:"amount"`
	Price  MinMax `json:"price"`
	Cost   MinMax `json:"cost"`
}

type Precision struct {
	Amount int32 `json:"amount"`
	Price  int32 `json:"price"`
}

// Market describes one tradable pair. Values are never modified after Load.
type Market struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	BaseID    string          `json:"base_id"`
	QuoteID   string          `json:"quote_id"`
	Type      string          `json:"type"`
	Precision Precision       `json:"precision"`
	Limits    Limits          `json:"limits"`
	Maker     decimal.Decimal `json:"maker"`
	Taker     decimal.Decimal `json:"taker"`
	Active    bool            `json:"active"`
}

var (
	defaultFee = decimal.RequireFromString("0.002")

	cryptoLimits = Limits{
		Amount: MinMax{Min: decimal.RequireFromString("0.0001")},
		Price:  MinMax{Min: decimal.RequireFromString("0.00000001")},
		Cost:   MinMax{Min: decimal.RequireFromString("0.0001")},
	}
	fiatLimits = Limits{
		Amount: MinMax{Min: decimal.RequireFromString("0.0001")},
		Price:  MinMax{Min: decimal.RequireFromString("0.01")},
		Cost:   MinMax{Min: decimal.RequireFromString("0.01")},
	}
)

type pairSpec struct {
	base, quote string
	precision   Precision
	limits      Limits
}

var pairs = []pairSpec{
	{"BTC", "WETH", Precision{Amount: 8, Price: 8}, cryptoLimits},
	{"ETH", "WETH", Precision{Amount: 8, Price: 8}, cryptoLimits},
	{"MINTME", "BTC", Precision{Amount: 8, Price: 8}, cryptoLimits},
	{"MINTME", "ETH", Precision{Amount: 8, Price: 8}, cryptoLimits},
	{"BTC", "USD", Precision{Amount: 8, Price: 2}, fiatLimits},
	{"ETH", "USD", Precision{Amount: 8, Price: 2}, fiatLimits},
}

func newMarket(p pairSpec) Market {
	baseID := strings.ToLower(p.base)
	quoteID := strings.ToLower(p.quote)
	return Market{
		ID:        baseID + "-" + quoteID,
		Symbol:    p.base + "/" + p.quote,
		Base:      p.base,
		Quote:     p.quote,
		BaseID:    baseID,
		QuoteID:   quoteID,
		Type:      "spot",
		Precision: p.precision,
		Limits:    p.limits,
		Maker:     defaultFee,
		Taker:     defaultFee,
		Active:    true,
	}
}

// Load returns the fixed set of MintMe markets keyed by symbol. It performs
// no I/O and does not reflect live exchange state.
func Load() Catalog {
	out := make(Catalog, len(pairs))
	for _, p := range pairs {
		m := newMarket(p)
		out[m.Symbol] = m
	}
	return out
}

// Catalog maps a case-sensitive symbol such as "BTC/USD" to its market.
type Catalog map[string]Market

func (c Catalog) Lookup(base, quote string) (Market, bool) {
	m, ok := c[base+"/"+quote]
	return m, ok
}

func (c Catalog) Symbols() []string {
	out := make([]string, 0, len(c))
	for s := range c {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Validate checks an order against the market's precision and limits.
// Price and cost are not checked for market-price orders.
func (m Market) Validate(o model.OrderRequest) error {
	if !m.Active {
		return fmt.Errorf("market %s is not active", m.Symbol)
	}
	if !o.Amount.Equal(o.Amount.Truncate(m.Precision.Amount)) {
		return fmt.Errorf("amount %s exceeds %d decimal places", o.Amount, m.Precision.Amount)
	}
	if !m.Limits.Amount.allows(o.Amount) {
		return fmt.Errorf("amount %s outside limits for %s", o.Amount, m.Symbol)
	}
	if o.MarketPrice {
		return nil
	}
	if !o.Price.Equal(o.Price.Truncate(m.Precision.Price)) {
		return fmt.Errorf("price %s exceeds %d decimal places", o.Price, m.Precision.Price)
	}
	if !m.Limits.Price.allows(o.Price) {
		return fmt.Errorf("price %s outside limits for %s", o.Price, m.Symbol)
	}
	if cost := o.Cost(); !m.Limits.Cost.allows(cost) {
		return fmt.Errorf("cost %s outside limits for %s", cost, m.Symbol)
	}
	return nil
}
