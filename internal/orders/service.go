// Package orders places and lists MintMe orders on behalf of gateway callers
// and journals every submission.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/journal"
	"mintme-bridge/internal/marketdata"
	"mintme-bridge/internal/markets"
	"mintme-bridge/internal/mintme"
	"mintme-bridge/internal/model"
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder    = errors.New("invalid order")
	ErrJournalDisabled = errors.New("order journal is not configured")
)

// Journal is the subset of journal.Store the service needs.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
	List(ctx context.Context, limit int) ([]journal.Entry, error)
}

type Service struct {
	adapter broker.Adapter
	catalog markets.Catalog
	journal Journal
	bus     *marketdata.Bus
}

// NewService wires the order service. journal and bus may be nil.
func NewService(adapter broker.Adapter, catalog markets.Catalog, j Journal, bus *marketdata.Bus) *Service {
	return &Service{adapter: adapter, catalog: catalog, journal: j, bus: bus}
}

type PlaceOrderRequest struct {
	UserID string
	Order  model.OrderRequest
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOrder, fmt.Sprintf(format, args...))
}

func (s *Service) validate(o model.OrderRequest) error {
	if o.Base == "" || o.Quote == "" {
		return invalid("base and quote are required")
	}
	if !o.Side.Valid() {
		return invalid("side must be buy or sell")
	}
	if !o.Amount.IsPositive() {
		return invalid("amount must be positive")
	}
	if !o.MarketPrice && !o.Price.IsPositive() {
		return invalid("price required unless market_price is set")
	}
	if o.Donation.IsNegative() {
		return invalid("donation must not be negative")
	}
	if m, ok := s.catalog.Lookup(o.Base, o.Quote); ok {
		if err := m.Validate(o); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

// PlaceOrder validates the order, submits it and records the outcome. A
// vendor business failure comes back as a Result with a nil error.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (broker.Result, error) {
	o := req.Order
	o.Base = strings.ToUpper(strings.TrimSpace(o.Base))
	o.Quote = strings.ToUpper(strings.TrimSpace(o.Quote))
	if err := s.validate(o); err != nil {
		return broker.Result{}, err
	}

	res, err := s.adapter.CreateOrder(ctx, o)
	if errors.Is(err, broker.ErrNotConfigured) {
		return res, err
	}

	entry := journal.Entry{
		Symbol:     o.Symbol(),
		Side:       string(o.Side),
		StatusCode: res.StatusCode,
		Response:   res.Body,
	}
	if wire, mErr := json.Marshal(o.Wire()); mErr == nil {
		entry.Request = wire
	}
	if err != nil {
		entry.Error = err.Error()
		var remote *mintme.RemoteError
		if errors.As(err, &remote) {
			entry.StatusCode = remote.StatusCode
		}
	}
	if s.journal != nil {
		saved, jErr := s.journal.Record(context.WithoutCancel(ctx), entry)
		if jErr != nil {
			log.Printf("journal order %s for %s: %v", entry.Symbol, req.UserID, jErr)
		} else {
			entry = saved
		}
	}
	if s.bus != nil {
		s.bus.PublishOrderResult(marketdata.OrderResult{
			JournalID:  entry.ID,
			Symbol:     entry.Symbol,
			Side:       entry.Side,
			StatusCode: entry.StatusCode,
			Code:       res.Code(),
			Message:    res.Message(),
			Error:      entry.Error,
		})
	}
	return res, err
}

func (s *Service) ListOrders(ctx context.Context, state types.OrderState, offset, limit int) (broker.Result, error) {
	switch state {
	case types.OrderStateActive:
		return s.adapter.FetchActiveOrders(ctx, offset, limit)
	case types.OrderStateFinished:
		return s.adapter.FetchFinishedOrders(ctx, offset, limit)
	default:
		return broker.Result{}, fmt.Errorf("unknown order state %q", state)
	}
}

func (s *Service) Journal(ctx context.Context, limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.List(ctx, limit)
}

func parseDecimal(field, raw string, def decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("invalid %s", field)
	}
	return d, nil
}
