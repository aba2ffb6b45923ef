package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tokensIssued = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lecturely",
	Subsystem: "auth",
	Name:      "tokens_issued_total",
	Help:      "Access tokens signed, including sliding re-issues.",
})
