package store

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/component/redis"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

var _ SessionStore = (*RedisStore)(nil)

// RedisStore keeps sessions in Redis lists, one JSON document per entry.
//
//	{prefix}session:{id}  RPUSH, oldest first
//	{prefix}queries       LPUSH, newest first
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	retention Retention
}

// NewRedisStore creates a store on top of client. A positive ttl expires a
// session key after its last write; the query log never expires.
func NewRedisStore(client *redis.Client, ttl time.Duration, retention Retention) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, retention: retention}
}

func (s *RedisStore) sessionKey(sessionID string) string {
	return s.client.Key("session", sessionID)
}

func (s *RedisStore) queriesKey() string {
	return s.client.Key("queries")
}

// AppendMessage implements SessionStore.
func (s *RedisStore) AppendMessage(ctx context.Context, msg model.ChatMessage) (*model.ChatMessage, error) {
	stampMessage(&msg)
	data, err := json.Marshal(&msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	key := s.sessionKey(msg.SessionID)
	_, err = s.client.Client().TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		if limit := s.retention.MaxMessagesPerSession; limit > 0 {
			pipe.LTrim(ctx, key, int64(-limit), -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append message to %s: %w", key, err)
	}
	return &msg, nil
}

// MessagesBySession implements SessionStore.
func (s *RedisStore) MessagesBySession(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	key := s.sessionKey(sessionID)
	raw, err := s.client.Client().LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages from %s: %w", key, err)
	}

	out := make([]*model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode message in %s: %w", key, err)
		}
		out = append(out, &m)
	}
	sortMessages(out)
	return out, nil
}

// AppendQueryLog implements SessionStore.
func (s *RedisStore) AppendQueryLog(ctx context.Context, log model.SearchQueryLog) (*model.SearchQueryLog, error) {
	stampQueryLog(&log)
	data, err := json.Marshal(&log)
	if err != nil {
		return nil, fmt.Errorf("encode query log: %w", err)
	}

	key := s.queriesKey()
	_, err = s.client.Client().TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		if limit := s.retention.MaxQueryLogs; limit > 0 {
			pipe.LTrim(ctx, key, 0, int64(limit-1))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append query log: %w", err)
	}
	return &log, nil
}

// ListQueryLogs implements SessionStore.
func (s *RedisStore) ListQueryLogs(ctx context.Context, limit int) ([]*model.SearchQueryLog, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.Client().LRange(ctx, s.queriesKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read query logs: %w", err)
	}

	out := make([]*model.SearchQueryLog, 0, len(raw))
	for _, item := range raw {
		var l model.SearchQueryLog
		if err := json.Unmarshal([]byte(item), &l); err != nil {
			return nil, fmt.Errorf("decode query log: %w", err)
		}
		out = append(out, &l)
	}
	sortQueryLogsDesc(out)
	return out, nil
}

// Close implements SessionStore.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
