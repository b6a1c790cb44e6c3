package probe

import "time"

// Outcome is the binary result of a probe.
type Outcome int

const (
	// OutcomeSuccess means the service answered with a completion.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means the request could not be completed.
	OutcomeFailure
)

// String returns "success" or "failure".
func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Category groups failures for logging and structured output.
type Category string

// Failure categories.
const (
	CategoryNone           Category = ""
	CategoryInvalidRequest Category = "invalid_request"
	CategoryAuthentication Category = "authentication"
	CategoryRateLimited    Category = "rate_limited"
	CategoryUnavailable    Category = "provider_unavailable"
	CategoryAPI            Category = "api"
	CategoryTimeout        Category = "timeout"
	CategoryCanceled       Category = "canceled"
	CategoryMalformed      Category = "malformed_response"
	CategoryTransport      Category = "transport"
)

// Result is either a success carrying the reply text or a failure carrying the error.
// Err is the error as returned by the SDK and is what the report prints. Typed
// wraps it in a pkg/errors type so callers can test it with errors.Is.
type Result struct {
	Outcome  Outcome
	Text     string
	Err      error
	Typed    error
	Category Category

	Model    string
	Elapsed  time.Duration
	Requests int
}

// OK reports whether the probe succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Error returns the failure text, or "" on success.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func success(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

func failure(err, typed error, category Category) Result {
	return Result{Outcome: OutcomeFailure, Err: err, Typed: typed, Category: category}
}
