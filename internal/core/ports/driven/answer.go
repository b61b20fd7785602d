package driven

import "context"

// AnswerService generates grounded answers via a language model.
// This is an optional service - when nil, questions are answered in a
// deterministic fallback mode that echoes the retrieved context.
type AnswerService interface {
	// Complete produces an answer from a system prompt and a user
	// prompt. Failures are transient from the caller's perspective;
	// the retry policy belongs to the caller.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}
