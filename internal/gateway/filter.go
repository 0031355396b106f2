package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenVerifier checks a bearer token out-of-band. The production
// implementation calls the auth service's /validate endpoint.
type TokenVerifier interface {
	Verify(ctx context.Context, authorizationHeader string) (bool, error)
}

// Filter gates every inbound request on a bearer-token check before the
// request reaches the reverse proxy. It is a pure gate: it never mutates the
// token, never caches results across requests, and does not attach derived
// identity to the forwarded request. Downstream services that need role
// information validate the token themselves.
//
// Every rejection is a bare 401. Missing token, malformed header, invalid
// token and verifier outage are indistinguishable to the client.
type Filter struct {
	verifier TokenVerifier
	logger   *slog.Logger
	metrics  *Metrics
}

func NewFilter(verifier TokenVerifier, logger *slog.Logger, metrics *Metrics) *Filter {
	return &Filter{verifier: verifier, logger: logger, metrics: metrics}
}

// Middleware wires the filter into a chi/stdlib middleware chain.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			// Short-circuit: no downstream call when there is nothing
			// that could possibly validate.
			f.reject(w, r, "missing bearer token")
			return
		}

		ok, err := f.verifier.Verify(r.Context(), header)
		if err != nil {
			// Fail closed: absence of proof of validity is treated the
			// same as proof of invalidity.
			f.logger.WarnContext(r.Context(), "token verification unavailable", "error", err)
			f.reject(w, r, "verifier error")
			return
		}
		if !ok {
			f.reject(w, r, "invalid token")
			return
		}

		if f.metrics != nil {
			f.metrics.Forwarded.Inc()
		}
		next.ServeHTTP(w, r)
	})
}

func (f *Filter) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if f.metrics != nil {
		f.metrics.Rejected.Inc()
	}
	f.logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", reason)
	w.WriteHeader(http.StatusUnauthorized)
}

// AuthServiceVerifier calls GET <baseURL>/validate, forwarding the original
// Authorization header unchanged. Any transport error or timeout surfaces as
// an error; a non-200 status means the token is invalid.
type AuthServiceVerifier struct {
	baseURL string
	client  *http.Client
}

func NewAuthServiceVerifier(baseURL string, timeout time.Duration) *AuthServiceVerifier {
	return &AuthServiceVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (v *AuthServiceVerifier) Verify(ctx context.Context, authorizationHeader string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/validate", nil)
	if err != nil {
		return false, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Authorization", authorizationHeader)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
