// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the text-generation backend behind a small interface.
// The synthesizer depends only on Backend; the OpenAI implementation lives
// beside it.
package llm

import "context"

// Role identifies who a prompt message speaks as.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one prompt message.
type Message struct {
	Role    Role
	Content string
}

// Backend generates text from prompt messages. Implementations block until
// the backend answers or ctx is done; cancellation and timeouts surface as
// errors, never as internal retries of the whole generation.
type Backend interface {
	// Name returns the backend name for logging.
	Name() string

	// Generate returns the generated text for the prompt.
	Generate(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error)
}
