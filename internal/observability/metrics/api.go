package metrics

import (
	"time"

	obserrors "github.com/target/storefront/internal/observability/errors"
	"github.com/target/storefront/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// RequestMetric captures one API call as seen by the caller, retries included.
type RequestMetric struct {
	Method   string
	Endpoint string
	Status   int
	Retried  bool
	Duration time.Duration
	Err      error
}

// APIMetrics emits API client and session lifecycle metrics. A nil receiver
// or nil sink is a no-op.
type APIMetrics struct {
	Sink statsd.Sink
}

// NewAPIMetrics wraps sink. A nil sink yields a no-op emitter.
func NewAPIMetrics(sink statsd.Sink) *APIMetrics {
	return &APIMetrics{Sink: sink}
}

func (m *APIMetrics) enabled() bool {
	return m != nil && m.Sink != nil
}

// ObserveRequest emits api.request (count and timing).
func (m *APIMetrics) ObserveRequest(in RequestMetric) {
	if !m.enabled() {
		return
	}

	result := ResultSuccess
	if in.Err != nil {
		result = ResultError
	}
	tags := map[string]string{
		"method":   in.Method,
		"endpoint": in.Endpoint,
		"result":   result,
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	if in.Retried {
		tags["retried"] = "true"
	}

	m.Sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		m.Sink.Timing("api.request.duration", in.Duration, CloneTags(tags))
	}
}

// Retry emits api.retry when a request is re-issued after a refresh.
func (m *APIMetrics) Retry(endpoint string) {
	if !m.enabled() {
		return
	}
	m.Sink.Count("api.retry", 1, map[string]string{"endpoint": endpoint})
}

// Refresh emits session.refresh tagged with the outcome.
func (m *APIMetrics) Refresh(err error) {
	if !m.enabled() {
		return
	}
	tags := map[string]string{"result": ResultSuccess}
	if err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(err)
	}
	m.Sink.Count("session.refresh", 1, tags)
}

// SessionCleared emits session.cleared tagged with the reason.
func (m *APIMetrics) SessionCleared(reason string) {
	if !m.enabled() {
		return
	}
	m.Sink.Count("session.cleared", 1, map[string]string{"reason": reason})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
