package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntities(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"array", `["diabetes", "high blood sugar"]`, []string{"diabetes", "high blood sugar"}, false},
		{"fenced", "```json\n[\"asthma\"]\n```", []string{"asthma"}, false},
		{"blank entries", `[" migraine ", ""]`, []string{"migraine"}, false},
		{"empty output", "  ", nil, false},
		{"empty array", `[]`, []string{}, false},
		{"object", `{"terms":["x"]}`, nil, true},
		{"prose", `diabetes, insulin`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntities(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractUsesStructuredOutput(t *testing.T) {
	p := &fakeProvider{entities: `["diabetes"]`}
	got, err := NewEntityExtractor(p).Extract(context.Background(), "am I diabetic?")

	require.NoError(t, err)
	assert.Equal(t, []string{"diabetes"}, got)
	assert.Equal(t, 1, p.jsonCalled)
	assert.Empty(t, p.prompts)
}

func TestExtractFallsBackToPlainGeneration(t *testing.T) {
	p := &plainProvider{out: `["asthma"]`}
	got, err := NewEntityExtractor(p).Extract(context.Background(), "wheezing")

	require.NoError(t, err)
	assert.Equal(t, []string{"asthma"}, got)
	assert.Contains(t, p.system, "JSON array of strings")
}

func TestExtractProviderError(t *testing.T) {
	p := &fakeProvider{entityErr: errors.New("quota exceeded")}
	_, err := NewEntityExtractor(p).Extract(context.Background(), "x")
	assert.Error(t, err)
}
