package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// This is the caller's fault and is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the per-space query rate limit was
	// exceeded. The caller must wait; no retry happens internally.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBackendExhausted indicates a backend kept failing after the
	// internal retry budget was spent.
	ErrBackendExhausted = errors.New("backend retries exhausted")

	// ErrEmbeddingUnavailable indicates the embedding backend is not
	// configured. Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAnswerUnavailable indicates the answer backend is not
	// configured. Questions are answered in fallback mode instead.
	ErrAnswerUnavailable = errors.New("answer service unavailable")

	// ErrFileValidation indicates an upload failed validation
	// (disallowed extension or size over the ceiling).
	ErrFileValidation = errors.New("file validation failed")
)
