package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/internal/medisearch/store"
	"github.com/kart-io/medisearch/pkg/errors"
	infralog "github.com/kart-io/medisearch/pkg/infra/logger"
	"github.com/kart-io/medisearch/pkg/infra/tracing"
)

const tracerName = "github.com/kart-io/medisearch/internal/medisearch/biz"

// ChatConfig configures a ChatService.
type ChatConfig struct {
	// HistoryWindow is the number of recent messages used as context.
	HistoryWindow int
	// ChatSearchLimit caps the conditions retrieved per chat turn.
	ChatSearchLimit int
	// SearchLimit caps the results of a direct search.
	SearchLimit int
	// AnalyticsLimit caps the query logs returned by Analytics.
	AnalyticsLimit int
	// EntityExtraction enables medical term extraction.
	EntityExtraction bool
}

// DefaultChatConfig returns the default chat configuration.
func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		HistoryWindow:    6,
		ChatSearchLimit:  5,
		SearchLimit:      10,
		AnalyticsLimit:   100,
		EntityExtraction: true,
	}
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Response      string               `json:"response"`
	SearchResults []model.SearchResult `json:"searchResults"`
}

// ChatService runs chat turns and serves the session read paths.
type ChatService struct {
	store     store.SessionStore
	retriever *Retriever
	extractor *EntityExtractor
	generator *Generator
	cfg       *ChatConfig
	metrics   *metrics.Metrics
}

// NewChatService creates a ChatService.
func NewChatService(
	sessions store.SessionStore,
	retriever *Retriever,
	extractor *EntityExtractor,
	generator *Generator,
	cfg *ChatConfig,
	m *metrics.Metrics,
) *ChatService {
	if cfg == nil {
		cfg = DefaultChatConfig()
	}
	if m == nil {
		m = metrics.Default()
	}
	return &ChatService{
		store:     sessions,
		retriever: retriever,
		extractor: extractor,
		generator: generator,
		cfg:       cfg,
		metrics:   m,
	}
}

// Chat answers message within sessionID. An empty sessionID is a valid
// session of its own.
//
// The user message is stored before anything else runs, so it is kept even
// when a later step fails. Extraction, search and generation faults degrade
// the turn instead of failing it; only store failures are returned.
func (s *ChatService) Chat(ctx context.Context, message, sessionID string) (reply *ChatReply, err error) {
	if message == "" {
		return nil, errors.ErrInvalidChatRequest.WithMessage("message is required")
	}

	ctx = infralog.WithSessionID(ctx, sessionID)
	ctx, span := tracing.StartSpan(ctx, tracerName, "medisearch.chat")
	start := time.Now()
	defer func() {
		s.metrics.RecordChat(time.Since(start), err)
		tracing.End(span, err)
	}()

	history, err := s.store.MessagesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	recent := RecentHistory(history, s.cfg.HistoryWindow)

	if _, err = s.store.AppendMessage(ctx, model.ChatMessage{
		SessionID: sessionID,
		Role:      model.RoleUser,
		Content:   message,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}
	s.metrics.RecordMessagePersisted()

	query := QueryText(s.extractEntities(ctx, message), message)
	results := s.retriever.Search(ctx, query, s.cfg.ChatSearchLimit)

	if _, err = s.store.AppendQueryLog(ctx, model.SearchQueryLog{
		Query:        message,
		ResultsCount: len(results),
	}); err != nil {
		return nil, fmt.Errorf("log query: %w", err)
	}
	s.metrics.RecordQueryLogged()

	answer, fallback := s.generator.Generate(ctx, BuildPromptInput(recent, message), BuildContext(results))
	if fallback {
		s.metrics.RecordGenerationFallback()
	}

	related := make([]string, 0, len(results))
	for _, r := range results {
		related = append(related, r.ID)
	}
	if _, err = s.store.AppendMessage(ctx, model.ChatMessage{
		SessionID:         sessionID,
		Role:              model.RoleAssistant,
		Content:           answer,
		RelatedConditions: related,
	}); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}
	s.metrics.RecordMessagePersisted()

	infralog.FromContext(ctx).Debugw("Chat turn completed",
		"query", query,
		"results", len(results),
		"history", len(recent),
		"fallback", fallback,
	)
	return &ChatReply{Response: answer, SearchResults: results}, nil
}

func (s *ChatService) extractEntities(ctx context.Context, message string) []string {
	if !s.cfg.EntityExtraction || s.extractor == nil {
		return nil
	}
	entities, err := s.extractor.Extract(ctx, message)
	if err != nil {
		s.metrics.RecordExtractionFailure()
		infralog.FromContext(ctx).Warnw("Entity extraction failed, searching with the raw message", "error", err.Error())
		return nil
	}
	return entities
}

// Search runs a direct search for query and logs it.
func (s *ChatService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if query == "" {
		return nil, errors.ErrQueryRequired
	}

	results := s.retriever.Search(ctx, query, s.cfg.SearchLimit)
	if _, err := s.store.AppendQueryLog(ctx, model.SearchQueryLog{
		Query:        query,
		ResultsCount: len(results),
	}); err != nil {
		return nil, fmt.Errorf("log query: %w", err)
	}
	s.metrics.RecordQueryLogged()
	return results, nil
}

// History returns the messages of a session, oldest first.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	return s.store.MessagesBySession(ctx, sessionID)
}

// Analytics returns the most recent query logs, newest first.
func (s *ChatService) Analytics(ctx context.Context) ([]*model.SearchQueryLog, error) {
	return s.store.ListQueryLogs(ctx, s.cfg.AnalyticsLimit)
}
