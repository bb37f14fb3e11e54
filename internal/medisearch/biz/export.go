package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/errors"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

// Export formats.
const (
	ExportText = "text"
	ExportJSON = "json"
)

const (
	appTitle      = "MediSearch AI"
	exportVersion = "1.0"
	exportTime    = "2006-01-02 15:04:05 MST"
)

// ExportFile is a rendered chat transcript.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export renders the history of sessionID in format.
func (s *ChatService) Export(ctx context.Context, sessionID, format string, now time.Time) (*ExportFile, error) {
	if format != ExportText && format != ExportJSON {
		return nil, errors.ErrExportFormat
	}

	msgs, err := s.store.MessagesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	if format == ExportText {
		return &ExportFile{
			Filename:    exportFilename(now, "txt"),
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(RenderText(msgs, now)),
		}, nil
	}

	body, err := RenderJSON(msgs, now)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    exportFilename(now, "json"),
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}, nil
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("medisearch-chat-%d.%s", now.UnixMilli(), ext)
}

// RenderText renders a plain text transcript.
func RenderText(msgs []*model.ChatMessage, now time.Time) string {
	entries := make([]string, 0, len(msgs))
	for _, m := range msgs {
		speaker := appTitle
		if m.Role == model.RoleUser {
			speaker = "You"
		}
		entries = append(entries, fmt.Sprintf("[%s] %s:\n%s\n", m.Timestamp.Format(exportTime), speaker, m.Content))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Chat History\nExported: %s\n\n", appTitle, now.Format(exportTime))
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(entries, "\n---\n\n"))
	return sb.String()
}

type exportDocument struct {
	ExportDate   time.Time       `json:"exportDate"`
	Application  string          `json:"application"`
	Version      string          `json:"version"`
	MessageCount int             `json:"messageCount"`
	Messages     []exportMessage `json:"messages"`
}

type exportMessage struct {
	ID                string     `json:"id"`
	Role              model.Role `json:"role"`
	Content           string     `json:"content"`
	Timestamp         time.Time  `json:"timestamp"`
	RelatedConditions []string   `json:"relatedConditions"`
}

// RenderJSON renders an indented JSON transcript.
func RenderJSON(msgs []*model.ChatMessage, now time.Time) ([]byte, error) {
	doc := exportDocument{
		ExportDate:   now.UTC(),
		Application:  appTitle,
		Version:      exportVersion,
		MessageCount: len(msgs),
		Messages:     make([]exportMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		related := m.RelatedConditions
		if related == nil {
			related = []string{}
		}
		doc.Messages = append(doc.Messages, exportMessage{
			ID:                m.ID,
			Role:              m.Role,
			Content:           m.Content,
			Timestamp:         m.Timestamp,
			RelatedConditions: related,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return body, nil
}
