package probe

import (
	"github.com/openai/openai-go/v3"

	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// Role is the author of a message in the probe conversation.
type Role string

const (
	// RoleSystem carries the instruction for the assistant.
	RoleSystem Role = "system"
	// RoleUser carries the prompt.
	RoleUser Role = "user"
)

// Message is one role/content pair.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Request is the chat completion sent by the probe. It is built once and not modified.
type Request struct {
	Model     string    `json:"model" yaml:"model"`
	Messages  []Message `json:"messages" yaml:"messages"`
	MaxTokens int64     `json:"max_tokens" yaml:"max_tokens"`
}

// NewRequest builds the two-message conversation used to test a key.
func NewRequest(model, systemPrompt, userPrompt string, maxTokens int64) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
		MaxTokens: maxTokens,
	}
}

// DefaultRequest returns the stock probe request.
func DefaultRequest() Request {
	return NewRequest(
		constants.DefaultModel,
		constants.DefaultSystemPrompt,
		constants.DefaultUserPrompt,
		constants.DefaultMaxTokens,
	)
}

// Validate checks the request before any network call is made.
func (r Request) Validate() error {
	if r.Model == "" {
		return errors.NewValidationError("model", r.Model, "cannot be empty")
	}
	if r.MaxTokens <= 0 {
		return errors.NewValidationError("max_tokens", r.MaxTokens, "must be positive")
	}
	if len(r.Messages) == 0 {
		return errors.NewValidationError("messages", nil, "at least one message is required")
	}
	for _, m := range r.Messages {
		if m.Role != RoleSystem && m.Role != RoleUser {
			return errors.NewValidationError("messages.role", m.Role, "must be system or user")
		}
	}
	return nil
}

// params converts the request into SDK parameters.
func (r Request) params() openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(r.Messages))
	for _, m := range r.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(r.Model),
		Messages:  messages,
		MaxTokens: openai.Int(r.MaxTokens),
	}
}
