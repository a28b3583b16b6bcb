package ordering

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionCounter     *prometheus.CounterVec //nolint:gochecknoglobals
	transitionCounterOnce sync.Once              //nolint:gochecknoglobals
)

func transitions() *prometheus.CounterVec {
	transitionCounterOnce.Do(func() {
		transitionCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restopos",
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Number of orders that entered a status, differentiated by status.",
			},
			[]string{"status"},
		)
	})

	return transitionCounter
}
