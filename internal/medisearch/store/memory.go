package store

import (
	"context"
	"sync"

	"github.com/kart-io/medisearch/internal/medisearch/model"
)

var _ SessionStore = (*MemoryStore)(nil)

// MemoryStore is a process-local SessionStore. Records are lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string][]*model.ChatMessage
	logs      []*model.SearchQueryLog
	retention Retention
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(retention Retention) *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string][]*model.ChatMessage),
		retention: retention,
	}
}

// AppendMessage implements SessionStore.
func (s *MemoryStore) AppendMessage(_ context.Context, msg model.ChatMessage) (*model.ChatMessage, error) {
	stampMessage(&msg)
	stored := msg

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.sessions[msg.SessionID], &stored)
	if limit := s.retention.MaxMessagesPerSession; limit > 0 && len(msgs) > limit {
		sortMessages(msgs)
		msgs = append([]*model.ChatMessage(nil), msgs[len(msgs)-limit:]...)
	}
	s.sessions[msg.SessionID] = msgs

	out := stored
	return &out, nil
}

// MessagesBySession implements SessionStore.
func (s *MemoryStore) MessagesBySession(_ context.Context, sessionID string) ([]*model.ChatMessage, error) {
	s.mu.RLock()
	stored := s.sessions[sessionID]
	out := make([]*model.ChatMessage, 0, len(stored))
	for _, m := range stored {
		cp := *m
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sortMessages(out)
	return out, nil
}

// AppendQueryLog implements SessionStore.
func (s *MemoryStore) AppendQueryLog(_ context.Context, log model.SearchQueryLog) (*model.SearchQueryLog, error) {
	stampQueryLog(&log)
	stored := log

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, &stored)
	if limit := s.retention.MaxQueryLogs; limit > 0 && len(s.logs) > limit {
		s.logs = append([]*model.SearchQueryLog(nil), s.logs[len(s.logs)-limit:]...)
	}

	out := stored
	return &out, nil
}

// ListQueryLogs implements SessionStore.
func (s *MemoryStore) ListQueryLogs(_ context.Context, limit int) ([]*model.SearchQueryLog, error) {
	s.mu.RLock()
	out := make([]*model.SearchQueryLog, 0, len(s.logs))
	for _, l := range s.logs {
		cp := *l
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sortQueryLogsDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements SessionStore.
func (s *MemoryStore) Close() error {
	return nil
}
