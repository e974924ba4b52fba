// Package marketdata serves the public market routes of the gateway and the
// in-process event bus behind the websocket feed.
package marketdata

import (
	"context"
	"log"
	"net/http"
	"strings"

	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/httputil"
	"mintme-bridge/internal/markets"

	"github.com/go-chi/chi/v5"
)

// AssetsCache holds the last successful asset list.
type AssetsCache interface {
	Assets(ctx context.Context) ([]byte, bool, error)
	StoreAssets(ctx context.Context, body []byte) error
}

type Handler struct {
	catalog markets.Catalog
	adapter broker.Adapter
	cache   AssetsCache
}

// NewHandler builds the handler. cache may be nil.
func NewHandler(catalog markets.Catalog, adapter broker.Adapter, cache AssetsCache) *Handler {
	return &Handler{catalog: catalog, adapter: adapter, cache: cache}
}

func (h *Handler) Markets(w http.ResponseWriter, r *http.Request) {
	out := make([]markets.Market, 0, len(h.catalog))
	for _, s := range h.catalog.Symbols() {
		out = append(out, h.catalog[s])
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// Market looks a pair up by its id, e.g. "btc-usd".
func (h *Handler) Market(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "id")))
	for _, m := range h.catalog {
		if m.ID == id {
			httputil.WriteJSON(w, http.StatusOK, m)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "market not found"})
}

func (h *Handler) Assets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.cache != nil {
		body, ok, err := h.cache.Assets(ctx)
		if err != nil {
			log.Printf("assets cache read: %v", err)
		} else if ok {
			w.Header().Set("X-Cache", "hit")
			httputil.WriteRaw(w, http.StatusOK, body)
			return
		}
	}
	res, err := h.adapter.FetchAssets(ctx)
	if err != nil {
		httputil.WriteAdapterError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.StoreAssets(ctx, res.Body); err != nil {
			log.Printf("assets cache write: %v", err)
		}
		w.Header().Set("X-Cache", "miss")
	}
	httputil.WriteResult(w, res)
}
