package apperrors

import (
	"context"
	"errors"
)

// ErrUnparseableDate indicates a date expression matched no resolution
// rule and is not a recognized literal.
var ErrUnparseableDate = errors.New("unparseable date expression")

// ErrAmbiguousDate indicates a date expression was recognized but
// anchor-dependent information needed to resolve it is missing.
var ErrAmbiguousDate = errors.New("ambiguous date expression")

// ErrMissingRequiredFilter indicates an endpoint that requires at least
// one of a disjunctive filter set was called without any of them.
var ErrMissingRequiredFilter = errors.New("missing required filter")

// ErrValidation indicates malformed tool parameters.
var ErrValidation = errors.New("validation error")

// ErrAuth indicates the upstream rejected our credentials (401/403).
// Fatal, never retried.
var ErrAuth = errors.New("authentication failed")

// ErrRateLimitExceeded indicates retries were exhausted after 429
// backoff.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// ErrServer indicates a 5xx from the upstream that survived the retry
// policy.
var ErrServer = errors.New("upstream server error")

// ErrUpstream indicates a non-retryable upstream client failure (4xx
// other than 401/403/429).
var ErrUpstream = errors.New("upstream request rejected")

// ErrCancelled indicates the workflow's cancellation/timeout signal was
// observed; distinguishable from data errors so callers can discard
// partial results.
var ErrCancelled = errors.New("operation cancelled")

// IsCancelled reports whether err stems from context cancellation or an
// explicit ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// FriendlyMessage converts an error into a plain-language message
// suitable for direct display, distinct from the error kind.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnparseableDate):
		return `Please use a date like "12/31/2024", "December 31, 2024" or a phrase like "last month".`
	case errors.Is(err, ErrAmbiguousDate):
		return "That date expression needs more context. Please specify an explicit date range."
	case errors.Is(err, ErrMissingRequiredFilter):
		return "This report needs at least a date range, a list of ids, or a modified-since bound."
	case errors.Is(err, ErrValidation):
		return "Some of the request parameters are invalid. Please check them and try again."
	case errors.Is(err, ErrAuth):
		return "Your QuickBooks Time connection has expired or lacks permission. Please reconnect your account."
	case errors.Is(err, ErrRateLimitExceeded):
		return "Too many requests to QuickBooks Time. Please wait a moment and try again."
	case errors.Is(err, ErrServer):
		return "QuickBooks Time is having trouble right now. Please try again shortly."
	case IsCancelled(err):
		return "The request was cancelled before it finished."
	default:
		return "An error occurred: " + err.Error() + ". Please try rephrasing your request."
	}
}
