package probe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/keyprobe/pkg/errors"
)

const completionBody = `{
  "id": "chatcmpl-test",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "logprobs": null,
    "message": {"role": "assistant", "content": "API key is working!", "refusal": null}
  }],
  "usage": {"prompt_tokens": 20, "completion_tokens": 6, "total_tokens": 26}
}`

const unauthorizedBody = `{
  "error": {
    "message": "Incorrect API key provided: sk-bad. You can find your API key at https://platform.openai.com/account/api-keys.",
    "type": "invalid_request_error",
    "param": null,
    "code": "invalid_api_key"
  }
}`

type stubServer struct {
	*httptest.Server
	hits     atomic.Int32
	lastAuth atomic.Value
	lastBody atomic.Value
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.lastAuth.Store(r.Header.Get("Authorization"))

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			s.lastBody.Store(payload)
		}

		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestProber_Success(t *testing.T) {
	server := newStubServer(t, http.StatusOK, completionBody)
	p := New(WithBaseURL(server.URL))

	result := p.Run(context.Background(), "sk-ABCDEFGHIJKLMNOPQRST1234", DefaultRequest())

	require.True(t, result.OK(), "unexpected failure: %v", result.Err)
	assert.Equal(t, "API key is working!", result.Text)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, int32(1), server.hits.Load())
	assert.Equal(t, "Bearer sk-ABCDEFGHIJKLMNOPQRST1234", server.lastAuth.Load())
}

func TestProber_SendsConversation(t *testing.T) {
	server := newStubServer(t, http.StatusOK, completionBody)
	p := New(WithBaseURL(server.URL + "/"))

	p.Run(context.Background(), "sk-test", DefaultRequest())

	payload, ok := server.lastBody.Load().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", payload["model"])
	assert.EqualValues(t, 50, payload["max_tokens"])

	messages, ok := payload["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are a helpful assistant.", first["content"])
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "Say 'API key is working!' in Dutch", second["content"])
}

func TestProber_AuthenticationFailure(t *testing.T) {
	server := newStubServer(t, http.StatusUnauthorized, unauthorizedBody)
	p := New(WithBaseURL(server.URL))

	result := p.Run(context.Background(), "sk-bad", DefaultRequest())

	require.False(t, result.OK())
	require.Error(t, result.Err)
	assert.Equal(t, CategoryAuthentication, result.Category)
	assert.Contains(t, result.Error(), "401")
	assert.Equal(t, 1, result.Requests, "authentication failures must not be retried")

	var sdkErr *openai.Error
	require.ErrorAs(t, result.Err, &sdkErr, "report text comes from the SDK error")
	assert.Equal(t, http.StatusUnauthorized, sdkErr.StatusCode)
	assert.ErrorIs(t, result.Typed, errors.ErrAPIKeyInvalid)
	assert.True(t, errors.IsAPIKeyError(result.Typed))
	var authErr *errors.AuthenticationError
	assert.ErrorAs(t, result.Typed, &authErr)
	assert.Equal(t, int32(1), server.hits.Load())
}

func TestProber_NoRetryOnServerErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := newStubServer(t, status, `{"error":{"message":"try later","type":"server_error"}}`)
			p := New(WithBaseURL(server.URL))

			result := p.Run(context.Background(), "sk-test", DefaultRequest())

			assert.False(t, result.OK())
			assert.Equal(t, int32(1), server.hits.Load())
			assert.Equal(t, 1, p.Requests())
		})
	}
}

func TestProber_Categories(t *testing.T) {
	isAPIError := func(err error) bool {
		var apiErr *errors.APIError
		return stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
	}

	tests := []struct {
		status int
		want   Category
		typed  func(error) bool
	}{
		{http.StatusForbidden, CategoryAuthentication, errors.IsAPIKeyError},
		{http.StatusTooManyRequests, CategoryRateLimited, errors.IsRateLimited},
		{http.StatusBadGateway, CategoryUnavailable, errors.IsProviderUnavailable},
		{http.StatusNotFound, CategoryAPI, isAPIError},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := newStubServer(t, tt.status, `{"error":{"message":"nope"}}`)
			result := New(WithBaseURL(server.URL)).Run(context.Background(), "sk-test", DefaultRequest())
			assert.Equal(t, tt.want, result.Category)
			assert.True(t, tt.typed(result.Typed), "typed error %v", result.Typed)
		})
	}
}

func TestProber_EmptyChoicesIsFailure(t *testing.T) {
	server := newStubServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`)

	result := New(WithBaseURL(server.URL)).Run(context.Background(), "sk-test", DefaultRequest())

	assert.False(t, result.OK())
	assert.Equal(t, CategoryMalformed, result.Category)
	assert.ErrorIs(t, result.Err, errors.ErrMalformedResponse)
}

func TestProber_EmptyKeyStillAttempted(t *testing.T) {
	server := newStubServer(t, http.StatusUnauthorized, unauthorizedBody)

	result := New(WithBaseURL(server.URL)).Run(context.Background(), "", DefaultRequest())

	assert.False(t, result.OK())
	assert.NotEmpty(t, result.Error())
}

func TestProber_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := New(WithBaseURL(url))
	result := p.Run(context.Background(), "sk-test", DefaultRequest())

	assert.False(t, result.OK())
	assert.Equal(t, CategoryTransport, result.Category)
	assert.Equal(t, 1, result.Requests)
}

func TestProber_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p := New(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	result := p.Run(context.Background(), "sk-test", DefaultRequest())

	assert.False(t, result.OK())
	assert.Equal(t, CategoryTimeout, result.Category)
	assert.Equal(t, 1, result.Requests)
	assert.True(t, errors.IsTimeout(result.Typed))
	assert.Contains(t, result.Typed.Error(), "after 50ms")
}

func TestProber_CanceledContext(t *testing.T) {
	server := newStubServer(t, http.StatusOK, completionBody)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(WithBaseURL(server.URL)).Run(ctx, "sk-test", DefaultRequest())

	assert.False(t, result.OK())
	assert.Equal(t, CategoryCanceled, result.Category)
	assert.True(t, errors.IsCanceled(result.Typed))
	assert.Equal(t, int32(0), server.hits.Load())
}

func TestProber_InvalidRequestMakesNoCall(t *testing.T) {
	server := newStubServer(t, http.StatusOK, completionBody)
	p := New(WithBaseURL(server.URL))

	result := p.Run(context.Background(), "sk-test", NewRequest("", "sys", "user", 50))

	assert.False(t, result.OK())
	assert.Equal(t, CategoryInvalidRequest, result.Category)
	assert.Equal(t, 0, result.Requests)
	assert.Equal(t, int32(0), server.hits.Load())
}
