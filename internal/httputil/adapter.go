package httputil

import (
	"context"
	"errors"
	"net/http"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/mintme"
)

// AdapterStatus maps an adapter error to the status the gateway answers with.
func AdapterStatus(err error) int {
	var remote *mintme.RemoteError
	var transport *mintme.TransportError
	switch {
	case errors.Is(err, broker.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, mintme.ErrInvalidPagination):
		return http.StatusBadRequest
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.As(err, &transport), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func WriteAdapterError(w http.ResponseWriter, err error) {
	WriteJSON(w, AdapterStatus(err), ErrorResponse{Error: err.Error()})
}

// WriteResult relays a vendor result with the status it arrived with.
// Business failures keep the vendor's status and body.
func WriteResult(w http.ResponseWriter, res broker.Result) {
	status := res.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if len(res.Body) == 0 {
		w.WriteHeader(status)
		return
	}
	WriteRaw(w, status, res.Body)
}
