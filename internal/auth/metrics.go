package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes.
const (
	outcomeSuccess     = "success"
	outcomeInvalid     = "invalid_credentials"
	outcomeDisabled    = "disabled"
	outcomeLocked      = "locked"
	outcomeInternalErr = "error"
)

var (
	loginCounter     *prometheus.CounterVec //nolint:gochecknoglobals
	loginCounterOnce sync.Once              //nolint:gochecknoglobals
)

func logins() *prometheus.CounterVec {
	loginCounterOnce.Do(func() {
		loginCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restopos",
				Subsystem: "auth",
				Name:      "logins_total",
				Help:      "Number of login attempts, differentiated by outcome.",
			},
			[]string{"outcome"},
		)
	})

	return loginCounter
}
