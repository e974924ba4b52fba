package model

import (
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

// OrderRequest is a single order submission. Price is ignored when
// MarketPrice is set.
type OrderRequest struct {
	Base        string          `json:"base"`
	Quote       string          `json:"quote"`
	Price       decimal.Decimal `json:"price"`
	MarketPrice bool            `json:"market_price"`
	Amount      decimal.Decimal `json:"amount"`
	Donation    decimal.Decimal `json:"donation"`
	Side        types.OrderSide `json:"side"`
}

func (o OrderRequest) Symbol() string {
	return o.Base + "/" + o.Quote
}

// Cost is the notional value in quote currency. It is zero for market orders.
func (o OrderRequest) Cost() decimal.Decimal {
	if o.MarketPrice {
		return decimal.Zero
	}
	return o.Price.Mul(o.Amount)
}

// WireOrder is the body the vendor expects on order creation.
type WireOrder struct {
	Base           string `json:"base"`
	Quote          string `json:"quote"`
	PriceInput     string `json:"priceInput"`
	AmountInput    string `json:"amountInput"`
	DonationAmount string `json:"donationAmount"`
	MarketPrice    bool   `json:"marketPrice"`
	Action         string `json:"action"`
}

func (o OrderRequest) Wire() WireOrder {
	price := o.Price
	if o.MarketPrice {
		price = decimal.Zero
	}
	return WireOrder{
		Base:           o.Base,
		Quote:          o.Quote,
		PriceInput:     price.String(),
		AmountInput:    o.Amount.String(),
		DonationAmount: o.Donation.String(),
		MarketPrice:    o.MarketPrice,
		Action:         string(o.Side),
	}
}
