package auth

import (
	"net/http"

	"mintme-bridge/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type tokenRequest struct {
	Subject string `json:"subject"`
}

// Token exchanges the internal token for a short-lived JWT, so browser
// clients can open the websocket feed without holding the shared secret.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CheckInternalToken(r.Header.Get("X-Internal-Token")); err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "invalid internal token"})
		return
	}
	var req tokenRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	token, err := h.svc.IssueToken(req.Subject)
	if err == ErrJWTDisabled {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
