package metrics

import (
	"aegisaccounts/backend/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestCounter conta o total de requisições HTTP.
	HTTPRequestCounter *prometheus.CounterVec

	// HTTPRequestDuration observa a duração das requisições HTTP.
	HTTPRequestDuration *prometheus.HistogramVec

	// RegistrationCounter conta registros de conta por resultado ("created", "duplicate_email", "error").
	RegistrationCounter *prometheus.CounterVec

	// TokenValidationCounter conta validações de token por propósito e resultado.
	// purpose: "verification" | "password_reset"; result: "ok" | "invalid" | "expired".
	TokenValidationCounter *prometheus.CounterVec

	// AppInfo expõe informações sobre a aplicação.
	AppInfo *prometheus.GaugeVec
)

func init() {
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aegisaccounts_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "aegisaccounts_http_request_duration_seconds",
			Help: "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RegistrationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aegisaccounts_registrations_total",
			Help: "Total number of account registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	TokenValidationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aegisaccounts_token_validations_total",
			Help: "Total number of account token validations by purpose and result.",
		},
		[]string{"purpose", "result"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aegisaccounts_app_info",
			Help: "Information about the Aegis Accounts application.",
		},
		[]string{"version"},
	)
	AppInfo.WithLabelValues(config.Cfg.AppVersion).Set(1)
}
