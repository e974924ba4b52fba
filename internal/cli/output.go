package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/markets"
	"mintme-bridge/internal/model"
)

const rule = "----------------------------------------"

func PrintOrderSummary(out io.Writer, req model.OrderRequest) {
	price := req.Price.String() + " " + req.Quote
	if req.MarketPrice {
		price = "MARKET PRICE"
	}
	marketPrice := "No"
	if req.MarketPrice {
		marketPrice = "Yes"
	}
	fmt.Fprintln(out, "Order Details:")
	fmt.Fprintf(out, "- Type: %s\n", strings.ToUpper(string(req.Side)))
	fmt.Fprintf(out, "- Pair: %s\n", req.Symbol())
	fmt.Fprintf(out, "- Price: %s\n", price)
	fmt.Fprintf(out, "- Amount: %s %s\n", req.Amount, req.Base)
	fmt.Fprintf(out, "- Market Price: %s\n", marketPrice)
	fmt.Fprintf(out, "- Donation: %s\n", req.Donation)
}

func PrintOrderResult(out io.Writer, res broker.Result) {
	var body struct {
		OrderID json.RawMessage `json:"orderId"`
	}
	_ = json.Unmarshal(res.Body, &body)
	orderID := "None"
	if len(body.OrderID) > 0 && string(body.OrderID) != "null" {
		orderID = strings.Trim(string(body.OrderID), `"`)
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Result Code: %s\n", orDefault(res.Code(), "N/A"))
	fmt.Fprintf(out, "Order ID: %s\n", orderID)
	if msg := res.Message(); msg != "" {
		fmt.Fprintf(out, "Message: %s\n", msg)
	}
	fmt.Fprintln(out, rule)
	printRaw(out, res)
}

type orderView struct {
	ID        json.RawMessage `json:"id"`
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	Action    string          `json:"action"`
	Price     json.RawMessage `json:"price"`
	Amount    json.RawMessage `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
}

// decodeOrders accepts either a bare array or an object with an "orders"
// array.
func decodeOrders(res broker.Result) []orderView {
	var list []orderView
	if err := json.Unmarshal(res.Body, &list); err == nil {
		return list
	}
	var wrapped struct {
		Orders []orderView `json:"orders"`
	}
	_ = json.Unmarshal(res.Body, &wrapped)
	return wrapped.Orders
}

func PrintOrders(out io.Writer, res broker.Result) {
	orders := decodeOrders(res)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Result Code: %s\n", orDefault(res.Code(), "N/A"))
	fmt.Fprintf(out, "Total Orders: %d\n", len(orders))
	if msg := res.Message(); msg != "" {
		fmt.Fprintf(out, "Message: %s\n", msg)
	}
	fmt.Fprintln(out, rule)

	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders found or returned")
	} else {
		fmt.Fprintln(out, "\nOrders Summary:")
		for i, o := range orders {
			fmt.Fprintf(out, "\nOrder #%d:\n", i+1)
			fmt.Fprintf(out, "- Order ID: %s\n", rawOr(o.ID, "N/A"))
			fmt.Fprintf(out, "- Pair: %s/%s\n", orDefault(o.Base, "N/A"), orDefault(o.Quote, "N/A"))
			fmt.Fprintf(out, "- Type: %s\n", orDefault(o.Action, "N/A"))
			fmt.Fprintf(out, "- Price: %s %s\n", rawOr(o.Price, "N/A"), o.Quote)
			fmt.Fprintf(out, "- Amount: %s %s\n", rawOr(o.Amount, "N/A"), o.Base)
			fmt.Fprintf(out, "- Status: %s\n", orDefault(o.Status, "N/A"))
			fmt.Fprintf(out, "- Created: %s\n", orDefault(o.CreatedAt, "N/A"))
		}
	}
	printRaw(out, res)
}

type assetView struct {
	TypeOfToken json.RawMessage `json:"type_of_token"`
	MakerFee    json.RawMessage `json:"maker_fee"`
	TakerFee    json.RawMessage `json:"taker_fee"`
	MinWithdraw json.RawMessage `json:"min_withdraw"`
}

// PrintAssets writes the first max assets by name, then the catalog symbols.
func PrintAssets(out io.Writer, res broker.Result, catalog markets.Catalog, max int) error {
	var assets map[string]assetView
	if err := res.Decode(&assets); err != nil {
		return fmt.Errorf("decode assets: %w", err)
	}
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	shown := names
	if max > 0 && len(shown) > max {
		shown = shown[:max]
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tTYPE\tMAKER FEE\tTAKER FEE\tMIN WITHDRAW")
	for _, name := range shown {
		a := assets[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			name,
			rawOr(a.TypeOfToken, "N/A"),
			rawOr(a.MakerFee, "N/A"),
			rawOr(a.TakerFee, "N/A"),
			rawOr(a.MinWithdraw, "N/A"),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nShowing %d of %d available assets\n", len(shown), len(names))
	fmt.Fprintf(out, "\nAvailable markets:\n%s\n", strings.Join(catalog.Symbols(), ", "))
	return nil
}

func printRaw(out io.Writer, res broker.Result) {
	fmt.Fprintln(out, "\nAPI Response:")
	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Body, "", "  "); err != nil {
		fmt.Fprintln(out, string(res.Body))
		return
	}
	fmt.Fprintln(out, buf.String())
}

func rawOr(raw json.RawMessage, fallback string) string {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return fallback
	}
	return s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
