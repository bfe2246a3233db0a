package congress

import "errors"

var (
	// ErrQuotaExhausted is returned before any network I/O once the daily
	// request budget is spent. Callers treat it as fatal for the day.
	ErrQuotaExhausted = errors.New("daily request quota exhausted")

	// ErrUpstreamUnavailable covers transport failures and 5xx responses.
	// Safe to retry with backoff.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamRejected covers 4xx responses and malformed payloads.
	// Retrying the same request will not help.
	ErrUpstreamRejected = errors.New("upstream rejected request")
)
