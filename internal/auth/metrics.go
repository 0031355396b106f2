package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the auth service.
type Metrics struct {
	LoginAttempts    *prometheus.CounterVec
	TokenValidations *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		TokenValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Token validation requests by outcome.",
		}, []string{"outcome"}),
	}
}
