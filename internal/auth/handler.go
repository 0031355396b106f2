package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"careline/pkg/sentinel"
)

// Handler is the thin HTTP layer over the auth service. Responses carry no
// detail beyond the status code on the failure paths: a 401 from /login or
// /validate looks the same regardless of cause.
type Handler struct {
	svc     *Service
	metrics *Metrics
}

func NewHandler(svc *Service, metrics *Metrics) *Handler {
	return &Handler{svc: svc, metrics: metrics}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Get("/validate", h.handleValidate)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signed, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.countLogin("failure")
		if errors.Is(err, sentinel.ErrUnauthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.countLogin("success")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{Token: signed})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		h.countValidation("rejected")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if !h.svc.ValidateToken(r.Context(), raw) {
		h.countValidation("rejected")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	h.countValidation("valid")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) countValidation(outcome string) {
	if h.metrics != nil {
		h.metrics.TokenValidations.WithLabelValues(outcome).Inc()
	}
}
