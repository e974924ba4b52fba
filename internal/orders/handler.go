package orders

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mintme-bridge/internal/httputil"
	"mintme-bridge/internal/mintme"
	"mintme-bridge/internal/model"
	"mintme-bridge/internal/types"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type placeOrderRequest struct {
	Base        string `json:"base"`
	Quote       string `json:"quote"`
	Side        string `json:"side"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	Donation    string `json:"donation"`
	MarketPrice bool   `json:"market_price"`
}

func (req placeOrderRequest) order() (model.OrderRequest, error) {
	price, err := parseDecimal("price", req.Price, decimal.Zero)
	if err != nil {
		return model.OrderRequest{}, err
	}
	amount, err := parseDecimal("amount", req.Amount, decimal.Zero)
	if err != nil {
		return model.OrderRequest{}, err
	}
	donation, err := parseDecimal("donation", req.Donation, decimal.Zero)
	if err != nil {
		return model.OrderRequest{}, err
	}
	return model.OrderRequest{
		Base:        req.Base,
		Quote:       req.Quote,
		Price:       price,
		MarketPrice: req.MarketPrice,
		Amount:      amount,
		Donation:    donation,
		Side:        types.OrderSide(strings.ToLower(strings.TrimSpace(req.Side))),
	}, nil
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request, userID string) {
	var req placeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	order, err := req.order()
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.PlaceOrder(r.Context(), PlaceOrderRequest{UserID: userID, Order: order})
	if errors.Is(err, ErrInvalidOrder) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		httputil.WriteAdapterError(w, err)
		return
	}
	httputil.WriteResult(w, res)
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, types.OrderStateActive)
}

func (h *Handler) Finished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, types.OrderStateFinished)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, state types.OrderState) {
	offset, err := intQuery(r, "offset", mintme.DefaultOffset)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	limit, err := intQuery(r, "limit", mintme.DefaultLimit)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.ListOrders(r.Context(), state, offset, limit)
	if err != nil {
		httputil.WriteAdapterError(w, err)
		return
	}
	httputil.WriteResult(w, res)
}

func (h *Handler) Journal(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	entries, err := h.svc.Journal(r.Context(), limit)
	if errors.Is(err, ErrJournalDisabled) {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
