package broker

import (
	"context"
	"errors"

	"mintme-bridge/internal/model"
)

var ErrNotConfigured = errors.New("broker adapter not configured")

type DisabledAdapter struct{}

func NewDisabledAdapter() *DisabledAdapter {
	return &DisabledAdapter{}
}

func (a *DisabledAdapter) FetchAssets(ctx context.Context) (Result, error) {
	return Result{}, ErrNotConfigured
}

func (a *DisabledAdapter) CreateOrder(ctx context.Context, req model.OrderRequest) (Result, error) {
	return Result{}, ErrNotConfigured
}

func (a *DisabledAdapter) FetchActiveOrders(ctx context.Context, offset, limit int) (Result, error) {
	return Result{}, ErrNotConfigured
}

func (a *DisabledAdapter) FetchFinishedOrders(ctx context.Context, offset, limit int) (Result, error) {
	return Result{}, ErrNotConfigured
}
