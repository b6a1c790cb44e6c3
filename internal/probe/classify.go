package probe

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/agentstation/keyprobe/pkg/errors"
)

const providerOpenAI = "openai"

// classify maps an SDK or transport error onto a category and a typed error
// that wraps it. The original error text is preserved for the report. timeout
// is the configured limit, reported on timeouts when set.
func classify(err error, timeout time.Duration) (Category, error) {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return CategoryAuthentication, errors.NewAuthenticationError(providerOpenAI, "api_key", "credential rejected", err)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return CategoryRateLimited, errors.WrapAPI(providerOpenAI, apiErr.StatusCode, err)
		case apiErr.StatusCode >= 500:
			return CategoryUnavailable, errors.WrapAPI(providerOpenAI, apiErr.StatusCode, err)
		default:
			return CategoryAPI, errors.WrapAPI(providerOpenAI, apiErr.StatusCode, err)
		}
	}

	var netErr net.Error
	isNetTimeout := stderrors.As(err, &netErr) && netErr.Timeout()

	switch {
	case stderrors.Is(err, context.DeadlineExceeded) || isNetTimeout:
		duration := ""
		if timeout > 0 {
			duration = timeout.String()
		}
		timeoutErr := errors.NewTimeoutError("chat completion", duration, err.Error())
		timeoutErr.Err = err
		return CategoryTimeout, timeoutErr
	case stderrors.Is(err, context.Canceled):
		return CategoryCanceled, stderrors.Join(errors.ErrCanceled, err)
	case stderrors.Is(err, errors.ErrMalformedResponse):
		return CategoryMalformed, err
	case errors.IsValidationError(err):
		return CategoryInvalidRequest, err
	}

	return CategoryTransport, errors.WrapAPI(providerOpenAI, 0, err)
}
