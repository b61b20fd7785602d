package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/core/retry"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Context assembly constants.
const (
	// contextDelimiter separates source entries in the assembled context.
	contextDelimiter = "\n\n---\n\n"

	// noContentSentinel is passed to the answer backend when retrieval
	// finds nothing, so the model knows there is nothing to ground on.
	noContentSentinel = "No relevant content found in this space."

	// fileContextCap bounds the extracted text included per file source.
	fileContextCap = 1000
)

// answerSystemPrompt instructs the model to stay grounded in the
// supplied context.
const answerSystemPrompt = "You answer questions based on the user's saved content. " +
	"Be accurate, helpful, and cite your sources."

// QueryService answers grounded questions about space content.
//
// Each question moves through rate check, retrieval, context assembly,
// answer generation, and recording; a failure at any step short-circuits
// and no partial QueryRecord is ever stored.
type QueryService struct {
	content    driving.ContentService
	queryStore driven.QueryStore
	answer     driven.AnswerService
	retry      retry.Policy
	limiter    *rateWindow
	now        func() time.Time
}

// NewQueryService creates a new query service.
// The answer service is optional (can be nil); without it questions are
// answered in a deterministic fallback mode that echoes the context.
func NewQueryService(
	content driving.ContentService,
	queryStore driven.QueryStore,
	answer driven.AnswerService,
) *QueryService {
	return &QueryService{
		content:    content,
		queryStore: queryStore,
		answer:     answer,
		retry:      retry.Default(),
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source used for rate limiting and
// record timestamps. Must be called before the first Ask.
func (s *QueryService) SetClock(now func() time.Time) {
	s.now = now
	s.limiter = nil
}

// SetRetryPolicy overrides the answer-generation retry policy.
func (s *QueryService) SetRetryPolicy(p retry.Policy) {
	s.retry = p
}

// Ask answers a question using content retrieved from the space.
func (s *QueryService) Ask(ctx context.Context, spaceID, question string) (*domain.QueryRecord, error) {
	if strings.TrimSpace(spaceID) == "" || strings.TrimSpace(question) == "" {
		return nil, domain.ErrInvalidInput
	}

	// Cheap fast-path rejection before any retrieval work.
	if !s.rateLimiter().allow(spaceID) {
		return nil, domain.ErrRateLimited
	}

	logger.Section("Grounded Query")
	logger.Debug("Space: %s, question: %q", spaceID, question)

	results, err := s.content.Search(ctx, spaceID, question, domain.DefaultTopK)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, fmt.Errorf("retrieve context: %w", err)
		}
		// Without embeddings retrieval finds nothing; the question can
		// still be answered against the empty-context sentinel.
		logger.Warn("ask: embedding service unavailable, answering without retrieval")
		results = nil
	}
	logger.Debug("Retrieved %d sources", len(results))

	contextText := buildContext(results)

	answer, err := s.generateAnswer(ctx, question, contextText)
	if err != nil {
		return nil, err
	}

	record := domain.QueryRecord{
		ID:        uuid.New().String(),
		SpaceID:   spaceID,
		Question:  question,
		Answer:    answer,
		Sources:   sourceRefs(results),
		CreatedAt: s.now(),
	}

	if err := s.queryStore.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("record query: %w", err)
	}
	return &record, nil
}

// History returns query records for a space, newest first.
func (s *QueryService) History(ctx context.Context, spaceID string, limit, offset int) ([]domain.QueryRecord, error) {
	return s.queryStore.ListBySpace(ctx, spaceID, limit, offset)
}

// ClearHistory removes all query records for a space.
func (s *QueryService) ClearHistory(ctx context.Context, spaceID string) error {
	if strings.TrimSpace(spaceID) == "" {
		return domain.ErrInvalidInput
	}
	return s.queryStore.ClearSpace(ctx, spaceID)
}

// rateLimiter lazily builds the sliding window so a clock injected via
// SetClock takes effect.
func (s *QueryService) rateLimiter() *rateWindow {
	if s.limiter == nil {
		s.limiter = newRateWindow(queryRateLimit, queryRateWindow, s.now)
	}
	return s.limiter
}

// generateAnswer calls the answer backend with bounded retries, or
// produces the fallback answer when no backend is configured.
// A degraded-mode fallback is a contract, not an error: it still
// produces a recordable answer.
func (s *QueryService) generateAnswer(ctx context.Context, question, contextText string) (string, error) {
	if s.answer == nil {
		return "LLM not configured. Based on your space content, here are the most relevant items:\n\n" + contextText, nil
	}

	userPrompt := fmt.Sprintf(`You are a helpful assistant that answers questions based on the user's saved content.
Use ONLY the provided context to answer. If the context doesn't contain enough information, say so clearly.
Be concise and direct. Reference specific sources when appropriate.

Context from user's space:
%s

Question: %s

Answer:`, contextText, question)

	var answer string
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		text, err := s.answer.Complete(ctx, answerSystemPrompt, userPrompt)
		if err != nil {
			logger.Warn("ask: answer generation attempt failed: %v", err)
			return err
		}
		answer = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", errors.Join(domain.ErrBackendExhausted, err))
	}
	return answer, nil
}

// buildContext assembles the bounded textual context the answer is
// grounded on, one entry per retrieved source.
func buildContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return noContentSentinel
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		content := result.Item.Content
		if result.Item.Type == domain.ItemTypeFile {
			if extracted := result.Item.ExtractedText(); extracted != "" {
				content = fmt.Sprintf("[File: %s] %s", result.Item.Content, truncate(extracted, fileContextCap))
			} else {
				content = fmt.Sprintf("[File: %s] (No text extracted)", result.Item.Content)
			}
		}

		entry := fmt.Sprintf("Source %d (relevance: %v):\n%s", i+1, result.Score, content)
		if result.Item.Notes != "" {
			entry += "\nNotes: " + result.Item.Notes
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, contextDelimiter)
}

// sourceRefs converts search results into the source references stored
// on a query record.
func sourceRefs(results []domain.SearchResult) []domain.SourceRef {
	refs := make([]domain.SourceRef, 0, len(results))
	for _, result := range results {
		refs = append(refs, domain.SourceRef{
			ItemID:  result.Item.ID,
			Type:    result.Item.Type,
			Content: truncate(result.Item.Content, domain.SourcePreviewLength),
			Score:   result.Score,
		})
	}
	return refs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
