package ordering

import (
	"slices"
	"time"

	"github.com/restopos/restopos/internal/db/models"
)

// lifecycle is the forward path of an order.
var lifecycle = []string{ //nolint:gochecknoglobals
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusInProgress,
	models.StatusCompleted,
	models.StatusPaid,
}

// DefaultStatuses returns the statuses every installation needs, with their descriptions.
func DefaultStatuses() map[string]string {
	return map[string]string{
		models.StatusPending:    "Order taken, not yet confirmed",
		models.StatusConfirmed:  "Order confirmed by the guest",
		models.StatusInProgress: "Order being prepared",
		models.StatusCompleted:  "Order served",
		models.StatusPaid:       "Order paid",
		models.StatusCanceled:   "Order canceled",
	}
}

// IsLifecycleStatus reports whether name is one of the built-in statuses.
func IsLifecycleStatus(name string) bool {
	return name == models.StatusCanceled || slices.Contains(lifecycle, name)
}

// CanTransition reports whether an order may move from one status to the other.
func CanTransition(from, to string) bool {
	if to == models.StatusCanceled {
		return from != models.StatusPaid && from != models.StatusCanceled && IsLifecycleStatus(from)
	}

	i := slices.Index(lifecycle, from)
	j := slices.Index(lifecycle, to)

	return i >= 0 && j == i+1
}

// editable reports whether the items of an order in status may change.
func editable(status string) bool {
	switch status {
	case models.StatusPending, models.StatusConfirmed, models.StatusInProgress:
		return true
	default:
		return false
	}
}

// closed reports whether an order in status is finished.
func closed(status string) bool {
	return status == models.StatusPaid || status == models.StatusCanceled
}

// stamp records when o entered status. A timestamp is never overwritten.
func stamp(o *models.Order, status string, at time.Time) {
	var field **time.Time

	switch status {
	case models.StatusConfirmed:
		field = &o.ConfirmedAt
	case models.StatusInProgress:
		field = &o.InProgressAt
	case models.StatusCompleted:
		field = &o.CompletedAt
	case models.StatusPaid:
		field = &o.PaidAt
	case models.StatusCanceled:
		field = &o.CanceledAt
	default:
		return
	}

	if *field == nil {
		*field = &at
	}
}
