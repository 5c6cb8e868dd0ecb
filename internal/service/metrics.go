package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "students_operations_total",
		Help: "Student directory operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

// observe counts one finished operation.
func observe(operation string, err error) {
	operationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
