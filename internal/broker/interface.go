package broker

import (
	"context"
	"encoding/json"
	"errors"

	"mintme-bridge/internal/model"
)

// Result is a vendor response body passed through untouched, together with
// the HTTP status it arrived with.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

func (r Result) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsBusinessFailure reports whether the vendor rejected the call with a
// structured payload instead of a bare HTTP error.
func (r Result) IsBusinessFailure() bool {
	return !r.Success() && len(r.Body) > 0
}

func (r Result) Decode(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty result body")
	}
	return json.Unmarshal(r.Body, v)
}

type envelope struct {
	Result  *json.Number `json:"result"`
	Message string       `json:"message"`
}

func (r Result) envelope() envelope {
	var e envelope
	if len(r.Body) == 0 || r.Body[0] != '{' {
		return e
	}
	_ = json.Unmarshal(r.Body, &e)
	return e
}

// Code returns the vendor "result" field, or "" when the body has none.
func (r Result) Code() string {
	e := r.envelope()
	if e.Result == nil {
		return ""
	}
	return e.Result.String()
}

// Message returns the vendor "message" field, or "" when the body has none.
func (r Result) Message() string {
	return r.envelope().Message
}

type Adapter interface {
	FetchAssets(ctx context.Context) (Result, error)
	CreateOrder(ctx context.Context, req model.OrderRequest) (Result, error)
	FetchActiveOrders(ctx context.Context, offset, limit int) (Result, error)
	FetchFinishedOrders(ctx context.Context, offset, limit int) (Result, error)
}
