package app

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/keyprobe/internal/auth"
	"github.com/agentstation/keyprobe/internal/cmd/output"
	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// ErrProbeFailed is returned in strict mode when the credential did not work.
var ErrProbeFailed = errors.New("probe failed")

// runProbe loads the credential, prints the diagnostic, sends the single
// request, and prints the outcome.
func (a *App) runProbe(cmd *cobra.Command, _ []string) error {
	ctx := logging.WithLogger(cmd.Context(), a.logger)
	logger := logging.FromContext(ctx)

	checker, err := auth.NewChecker(a.config.KeyPattern)
	if err != nil {
		return errors.NewConfigError("key_pattern", err.Error(), errors.ErrInvalidInput)
	}

	printer := output.NewPrinter(a.stdout, output.Format(a.config.Format))

	cred := auth.NewLoader(a.config.EnvFile, a.config.KeyName).Load(ctx)
	status := checker.Check(cred)
	switch status.State {
	case auth.StateMissing:
		logger.Warn().Str("key", cred.Name).Str("file", cred.File).Msg(status.Summary)
	case auth.StateInvalid:
		logger.Warn().Str("key", cred.Name).Str("pattern", a.config.KeyPattern).Msg(status.Summary)
	default:
		logger.Debug().Str("key", cred.Name).Str("source", string(cred.Source)).Msg(status.Summary)
	}

	if err := printer.Credential(cred, status); err != nil {
		return err
	}

	if a.transport == nil {
		a.transport = transport.New()
	}
	prober := probe.New(
		probe.WithTransport(a.transport),
		probe.WithBaseURL(a.config.BaseURL),
		probe.WithTimeout(a.config.Timeout),
	)

	req := probe.NewRequest(a.config.Model, a.config.SystemPrompt, a.config.UserPrompt, a.config.MaxTokens)
	result := prober.Run(ctx, cred.Value, req)

	if err := printer.Result(result); err != nil {
		return err
	}

	if result.OK() {
		return nil
	}
	logFailure(logger, result)

	if a.config.Strict {
		return fmt.Errorf("%w: %s", ErrProbeFailed, failureReason(result.Typed))
	}
	return nil
}

// logFailure logs a failed probe at a level matching how actionable it is.
func logFailure(logger *zerolog.Logger, result probe.Result) {
	var event *zerolog.Event
	switch {
	case errors.IsAPIKeyError(result.Typed):
		event = logger.Error()
	case errors.IsCanceled(result.Typed):
		event = logger.Info()
	default:
		event = logger.Warn()
	}
	event.Err(result.Typed).
		Str("category", string(result.Category)).
		Int("requests", result.Requests).
		Msg(failureReason(result.Typed))
}

// failureReason summarizes a classified probe error in one phrase.
func failureReason(err error) string {
	switch {
	case errors.IsAPIKeyError(err):
		return "API key rejected"
	case errors.IsRateLimited(err):
		return "API key accepted but rate limited"
	case errors.IsProviderUnavailable(err):
		return "provider unavailable"
	case errors.IsTimeout(err):
		return "request timed out"
	case errors.IsCanceled(err):
		return "request canceled"
	case errors.IsValidationError(err):
		return "invalid request"
	default:
		return "request failed"
	}
}
