package telemetry

import "go.opentelemetry.io/otel/attribute"

// Common attribute keys for consistent tracing across the client.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	GenerationIDKey     = "gamma.generation_id"
	GenerationStatusKey = "gamma.status"
	PollAttemptsKey     = "gamma.poll.attempts"
	PollIntervalKey     = "gamma.poll.interval_ms"
	PollTimeoutKey      = "gamma.poll.timeout_ms"
	ResourceKindKey     = "gamma.resource.kind"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}
