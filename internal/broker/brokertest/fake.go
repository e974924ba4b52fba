// Package brokertest provides a scripted broker.Adapter for handler tests.
package brokertest

import (
	"context"
	"sync"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/model"
)

type Page struct {
	Offset, Limit int
}

// Fake returns the configured result or error for every call and records
// the arguments it was called with.
type Fake struct {
	Result broker.Result
	Err    error

	mu     sync.Mutex
	Calls  []string
	Orders []model.OrderRequest
	Pages  []Page
}

var _ broker.Adapter = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()
}

func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *Fake) FetchAssets(ctx context.Context) (broker.Result, error) {
	f.record("assets")
	return f.Result, f.Err
}

func (f *Fake) CreateOrder(ctx context.Context, req model.OrderRequest) (broker.Result, error) {
	f.record("create")
	f.mu.Lock()
	f.Orders = append(f.Orders, req)
	f.mu.Unlock()
	return f.Result, f.Err
}

func (f *Fake) FetchActiveOrders(ctx context.Context, offset, limit int) (broker.Result, error) {
	f.record("active")
	f.mu.Lock()
	f.Pages = append(f.Pages, Page{offset, limit})
	f.mu.Unlock()
	return f.Result, f.Err
}

func (f *Fake) FetchFinishedOrders(ctx context.Context, offset, limit int) (broker.Result, error) {
	f.record("finished")
	f.mu.Lock()
	f.Pages = append(f.Pages, Page{offset, limit})
	f.mu.Unlock()
	return f.Result, f.Err
}
