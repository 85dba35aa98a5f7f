package eval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluator metrics. These are registered on the default registry; the
// harness decides whether to expose them.
var (
	metricFnInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mushcode",
		Subsystem: "eval",
		Name:      "function_invocations_total",
		Help:      "Builtin and user-defined function calls by name.",
	}, []string{"function"})

	metricFnNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mushcode",
		Subsystem: "eval",
		Name:      "function_not_found_total",
		Help:      "Lookups of functions that do not exist.",
	})

	metricRecursionAborts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mushcode",
		Subsystem: "eval",
		Name:      "recursion_limit_aborts_total",
		Help:      "Evaluations cut off by the function recursion limit.",
	})

	metricInvocationAborts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mushcode",
		Subsystem: "eval",
		Name:      "invocation_limit_aborts_total",
		Help:      "Evaluations cut off by the function invocation limit.",
	})

	metricRegisterWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mushcode",
		Subsystem: "eval",
		Name:      "register_writes_total",
		Help:      "Successful global register mutations.",
	})
)
