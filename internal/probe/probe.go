// Package probe sends a single chat completion to check that an API key works.
//
// A Prober never retries: the SDK's retry loop is disabled and every request
// goes through a counting transport, so one Run makes at most one HTTP call.
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// Prober issues the probe request.
type Prober struct {
	transport *transport.Client
	baseURL   string
	timeout   time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(p *Prober) {
		p.baseURL = url
	}
}

// WithTimeout bounds the whole request. Zero means no limit beyond the transport's.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithTransport sets the HTTP transport, e.g. one wrapping a stub.
func WithTransport(t *transport.Client) Option {
	return func(p *Prober) {
		if t != nil {
			p.transport = t
		}
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{timeout: constants.DefaultProbeTimeout}
	for _, opt := range opts {
		opt(p)
	}
	if p.transport == nil {
		p.transport = transport.New()
	}
	return p
}

// Requests returns the number of HTTP requests sent through this prober.
func (p *Prober) Requests() int {
	return p.transport.Requests()
}

// Run sends req authenticated with apiKey and returns the outcome. It never
// panics and never returns a Go error: every failure is a failure Result.
func (p *Prober) Run(ctx context.Context, apiKey string, req Request) Result {
	logger := logging.FromContext(ctx).With().Str("model", req.Model).Logger()
	ctx = logging.WithLogger(ctx, &logger)

	before := p.transport.Requests()
	start := time.Now()
	result := p.run(ctx, apiKey, req)
	result.Model = req.Model
	result.Elapsed = time.Since(start)
	result.Requests = p.transport.Requests() - before

	if result.OK() {
		logger.Debug().Dur("elapsed", result.Elapsed).Msg("Probe succeeded")
	} else {
		logger.Debug().
			Err(result.Typed).
			Str("category", string(result.Category)).
			Dur("elapsed", result.Elapsed).
			Msg("Probe failed")
	}
	return result
}

func (p *Prober) run(ctx context.Context, apiKey string, req Request) Result {
	if err := req.Validate(); err != nil {
		return failure(err, err, CategoryInvalidRequest)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	client := openai.NewClient(p.clientOptions(apiKey)...)

	resp, err := client.Chat.Completions.New(ctx, req.params())
	if err != nil {
		category, typed := classify(err, p.timeout)
		return failure(err, typed, category)
	}

	if resp == nil || len(resp.Choices) == 0 {
		err := errors.NewAPIError(providerOpenAI, 0, constants.ErrMsgMalformedResponse)
		err.Err = errors.ErrMalformedResponse
		return failure(err, err, CategoryMalformed)
	}

	return success(resp.Choices[0].Message.Content)
}

func (p *Prober) clientOptions(apiKey string) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(p.transport.HTTPClient()),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		base := p.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return opts
}
