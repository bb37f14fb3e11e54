package biz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	pkgerrors "github.com/kart-io/medisearch/pkg/errors"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

var exportNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func exportMessages() []*model.ChatMessage {
	return []*model.ChatMessage{
		{ID: "1", SessionID: "s", Role: model.RoleUser, Content: "What is asthma?",
			Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "2", SessionID: "s", Role: model.RoleAssistant, Content: "A chronic lung condition.",
			Timestamp: time.Date(2026, 3, 1, 9, 0, 5, 0, time.UTC), RelatedConditions: []string{"asthma"}},
	}
}

func TestRenderText(t *testing.T) {
	got := RenderText(exportMessages(), exportNow)

	want := "MediSearch AI - Chat History\nExported: 2026-03-01 09:30:00 UTC\n\n" +
		strings.Repeat("=", 60) + "\n\n" +
		"[2026-03-01 09:00:00 UTC] You:\nWhat is asthma?\n" +
		"\n---\n\n" +
		"[2026-03-01 09:00:05 UTC] MediSearch AI:\nA chronic lung condition.\n"
	assert.Equal(t, want, got)
}

func TestRenderJSON(t *testing.T) {
	body, err := RenderJSON(exportMessages(), exportNow)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "MediSearch AI", doc["application"])
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, float64(2), doc["messageCount"])
	assert.Equal(t, "2026-03-01T09:30:00Z", doc["exportDate"])

	msgs := doc["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, []any{}, first["relatedConditions"])
	assert.Equal(t, []any{"asthma"}, msgs[1].(map[string]any)["relatedConditions"])
}

func TestExport(t *testing.T) {
	f := newChatFixture(t, false, nil)
	ctx := context.Background()
	_, err := f.svc.Chat(ctx, "hello", "s1")
	require.NoError(t, err)

	text, err := f.svc.Export(ctx, "s1", ExportText, exportNow)
	require.NoError(t, err)
	assert.Equal(t, "medisearch-chat-1772357400000.txt", text.Filename)
	assert.Contains(t, text.ContentType, "text/plain")
	assert.Contains(t, string(text.Body), "You:\nhello\n")

	js, err := f.svc.Export(ctx, "s1", ExportJSON, exportNow)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(js.Filename, ".json"))
	assert.Contains(t, js.ContentType, "application/json")

	_, err = f.svc.Export(ctx, "s1", "pdf", exportNow)
	assert.True(t, errors.Is(err, pkgerrors.ErrExportFormat))
}
