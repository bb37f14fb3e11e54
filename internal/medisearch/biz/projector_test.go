package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
)

func TestProjectDelimitedFields(t *testing.T) {
	h := hit("flu", score(7), map[string]any{
		"id":          "ignored",
		"name":        "Influenza",
		"description": "Viral infection",
		"category":    "Infectious",
		"symptoms":    "fever, cough,headache",
		"treatments":  "rest,, fluids ",
		"severity":    "Moderate",
	})

	res, err := Project(h, NewRelevance(10))
	require.NoError(t, err)

	assert.Equal(t, "flu", res.ID)
	assert.Equal(t, "Influenza", res.Name)
	assert.Equal(t, []string{"fever", "cough", "headache"}, res.Symptoms)
	assert.Equal(t, []string{"rest", "fluids"}, res.Treatments)
	assert.InDelta(t, 0.7, res.RelevanceScore, 1e-9)
	assert.NotNil(t, res.HighlightedTerms)
	assert.Empty(t, res.HighlightedTerms)
}

func TestProjectArrayFieldsAreIdentity(t *testing.T) {
	h := hit("asthma", nil, map[string]any{
		"name":       "Asthma",
		"symptoms":   []string{"fever", "cough"},
		"treatments": []string{"inhaler"},
	})

	res, err := Project(h, NewRelevance(10))
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "cough"}, res.Symptoms)
	assert.Equal(t, []string{"inhaler"}, res.Treatments)
	assert.Zero(t, res.RelevanceScore)
}

func TestProjectMissingFields(t *testing.T) {
	res, err := Project(hit("x", score(3), map[string]any{"name": "X"}), NewRelevance(10))
	require.NoError(t, err)
	assert.Equal(t, []string{}, res.Symptoms)
	assert.Equal(t, []string{}, res.Treatments)
}

func TestProjectFallsBackToSourceID(t *testing.T) {
	res, err := Project(hit("", nil, map[string]any{"id": "src"}), NewRelevance(10))
	require.NoError(t, err)
	assert.Equal(t, "src", res.ID)
}

func TestProjectInvalidSource(t *testing.T) {
	_, err := Project(elasticsearch.Hit{ID: "bad", Source: []byte(`{"symptoms":12}`)}, NewRelevance(10))
	assert.Error(t, err)
}
