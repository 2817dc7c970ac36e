// Package Invariants reports broken structural invariants of the containers.
// A broken invariant is a bug in this module, never a condition a caller can
// recover from, so Raise always ends in a panic after recording the violation
// in the log and in the violation counter.
package Invariants

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var violations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sortedmaps_invariant_violations_total",
	Help: "The total number of structural invariant violations detected.",
}, []string{
	"module", // The container that was checked, e.g. "avl".
	"type",   // The kind of violation, e.g. "balance".
})

// Violation is the panic value of Raise.
type Violation struct {
	Module, Type string
	Err          error
}

func (v *Violation) Error() string {
	return "invariant violated in " + v.Module + " (" + v.Type + "): " + v.Err.Error()
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// Raise records the violation err of kind typ found in module, then panics
// with a *Violation. args are extra slog attributes.
func Raise(module, typ string, err error, args ...any) {
	violations.WithLabelValues(module, typ).Inc()
	slog.With("invariant", typ, "module", module).Error(err.Error(), args...)
	panic(&Violation{module, typ, err})
}

// Count returns how many violations of kind typ were raised in module.
func Count(module, typ string) int {
	var metric promclient.Metric
	if err := violations.WithLabelValues(module, typ).Write(&metric); err != nil {
		slog.Error(err.Error())
		return 0
	}
	return int(metric.Counter.GetValue())
}
