package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/internal/medisearch/model"
)

func TestMemoryStoreMessageRoundTrip(t *testing.T) {
	s := NewMemoryStore(Retention{})
	ctx := context.Background()

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stored, err := s.AppendMessage(ctx, model.ChatMessage{
		SessionID:         "s1",
		Role:              model.RoleAssistant,
		Content:           "Rest and fluids.",
		Timestamp:         ts,
		RelatedConditions: []string{"flu"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	msgs, err := s.MessagesBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, *stored, *msgs[0])
	assert.Equal(t, ts, msgs[0].Timestamp)
	assert.Equal(t, []string{"flu"}, msgs[0].RelatedConditions)
}

func TestMemoryStoreOrdersAscending(t *testing.T) {
	s := NewMemoryStore(Retention{})
	ctx := context.Background()
	base := time.Now().UTC()

	for _, offset := range []int{3, 1, 2} {
		_, err := s.AppendMessage(ctx, model.ChatMessage{
			SessionID: "s1",
			Content:   fmt.Sprintf("m%d", offset),
			Timestamp: base.Add(time.Duration(offset) * time.Second),
		})
		require.NoError(t, err)
	}
	_, _ = s.AppendMessage(ctx, model.ChatMessage{SessionID: "other", Content: "x"})

	msgs, err := s.MessagesBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].Content)
	assert.Equal(t, "m2", msgs[1].Content)
	assert.Equal(t, "m3", msgs[2].Content)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	msgs, err := NewMemoryStore(Retention{}).MessagesBySession(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore(Retention{})
	ctx := context.Background()
	_, _ = s.AppendMessage(ctx, model.ChatMessage{SessionID: "s1", Content: "original"})

	msgs, _ := s.MessagesBySession(ctx, "s1")
	msgs[0].Content = "changed"

	again, _ := s.MessagesBySession(ctx, "s1")
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStoreQueryLogsNewestFirst(t *testing.T) {
	s := NewMemoryStore(Retention{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.AppendQueryLog(ctx, model.SearchQueryLog{Query: fmt.Sprintf("q%d", i), ResultsCount: i})
		require.NoError(t, err)
	}

	logs, err := s.ListQueryLogs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "q4", logs[0].Query)
	assert.Equal(t, "q2", logs[2].Query)

	all, _ := s.ListQueryLogs(ctx, 0)
	assert.Len(t, all, 5)
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore(Retention{MaxMessagesPerSession: 3, MaxQueryLogs: 2})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, _ = s.AppendMessage(ctx, model.ChatMessage{SessionID: "s1", Content: fmt.Sprintf("m%d", i)})
		_, _ = s.AppendQueryLog(ctx, model.SearchQueryLog{Query: fmt.Sprintf("q%d", i)})
	}

	msgs, _ := s.MessagesBySession(ctx, "s1")
	require.Len(t, msgs, 3)
	assert.Equal(t, "m2", msgs[0].Content)
	assert.Equal(t, "m4", msgs[2].Content)

	logs, _ := s.ListQueryLogs(ctx, 0)
	require.Len(t, logs, 2)
	assert.Equal(t, "q4", logs[0].Query)
	assert.Equal(t, "q3", logs[1].Query)
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	s := NewMemoryStore(Retention{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", i%4)
			for j := 0; j < 10; j++ {
				_, _ = s.AppendMessage(ctx, model.ChatMessage{SessionID: session, Content: "x"})
				_, _ = s.MessagesBySession(ctx, session)
			}
			_, _ = s.AppendQueryLog(ctx, model.SearchQueryLog{Query: "q"})
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		msgs, _ := s.MessagesBySession(ctx, fmt.Sprintf("s%d", i))
		assert.Len(t, msgs, 50)
		for _, m := range msgs {
			assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
			seen[m.ID] = true
		}
	}
	logs, _ := s.ListQueryLogs(ctx, 0)
	assert.Len(t, logs, 20)
}
