package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "findbuddy"

// SessionTransitionsTotal counts session state changes.
// Label:
//   - to: logged_out, resolving, logged_in or invalid
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state.",
	},
	[]string{"to"},
)

// ClientRequestsTotal counts API calls made by the client.
// Labels:
//   - method: HTTP method
//   - route: request path with IDs collapsed to :id
//   - code: response status, or "error" when no response arrived
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of API requests issued by the client.",
	},
	[]string{"method", "route", "code"},
)

// ClientRequestDuration measures API round-trip latency.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of API requests issued by the client.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// DevJoinsTotal counts join attempts on the development backend.
// Label:
//   - result: joined, not_found, already_joined or full
var DevJoinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dev_joins_total",
		Help:      "Total number of activity join attempts, by outcome.",
	},
	[]string{"result"},
)
