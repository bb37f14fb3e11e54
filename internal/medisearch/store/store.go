package store

import (
	"context"
	"sort"
	"time"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/id"
)

// SessionStore keeps chat messages and query logs.
//
// Implementations assign a fresh id and, when unset, the current time to
// every appended record. MessagesBySession returns messages in ascending
// timestamp order; ListQueryLogs returns the most recent logs first.
type SessionStore interface {
	// AppendMessage stores msg and returns the stored copy.
	AppendMessage(ctx context.Context, msg model.ChatMessage) (*model.ChatMessage, error)

	// MessagesBySession returns every message of a session, oldest first.
	MessagesBySession(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)

	// AppendQueryLog stores log and returns the stored copy.
	AppendQueryLog(ctx context.Context, log model.SearchQueryLog) (*model.SearchQueryLog, error)

	// ListQueryLogs returns up to limit logs, newest first. A non-positive
	// limit returns all of them.
	ListQueryLogs(ctx context.Context, limit int) ([]*model.SearchQueryLog, error)

	// Close releases the backing resources.
	Close() error
}

// Retention caps what a store keeps. Zero keeps everything.
type Retention struct {
	MaxMessagesPerSession int
	MaxQueryLogs          int
}

func stampMessage(msg *model.ChatMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.ID = id.NewULIDAt(msg.Timestamp)
}

func stampQueryLog(log *model.SearchQueryLog) {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	log.ID = id.NewULIDAt(log.Timestamp)
}

// sortMessages orders by timestamp, then id. ULIDs break ties in insertion order.
func sortMessages(msgs []*model.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		return msgs[i].ID < msgs[j].ID
	})
}

// sortQueryLogsDesc orders newest first.
func sortQueryLogsDesc(logs []*model.SearchQueryLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID > logs[j].ID
	})
}
