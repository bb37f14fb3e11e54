package biz

import "strings"

// SearchRequest is the body of a condition search.
type SearchRequest struct {
	Query BoolQuery `json:"query"`
	Size  int       `json:"size"`
}

// BoolQuery wraps a bool compound query.
type BoolQuery struct {
	Bool BoolClause `json:"bool"`
}

// BoolClause OR-combines its should clauses.
type BoolClause struct {
	Should             []any `json:"should"`
	MinimumShouldMatch int   `json:"minimum_should_match"`
}

// MatchClause is a single-field match query.
type MatchClause struct {
	Match map[string]MatchField `json:"match"`
}

// MatchField holds the query text and boost of a match query.
type MatchField struct {
	Query string  `json:"query"`
	Boost float64 `json:"boost,omitempty"`
}

// MultiMatchClause is a multi_match query.
type MultiMatchClause struct {
	MultiMatch MultiMatch `json:"multi_match"`
}

// MultiMatch searches several boosted fields at once.
type MultiMatch struct {
	Query     string   `json:"query"`
	Fields    []string `json:"fields"`
	Type      string   `json:"type"`
	Fuzziness string   `json:"fuzziness,omitempty"`
}

// NormalizeQuery trims text and collapses internal whitespace runs.
func NormalizeQuery(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// QueryText returns the extracted entities joined by a single space, or the
// raw message when no usable entity was extracted.
func QueryText(entities []string, message string) string {
	terms := make([]string, 0, len(entities))
	for _, e := range entities {
		if e = NormalizeQuery(e); e != "" {
			terms = append(terms, e)
		}
	}
	if len(terms) == 0 {
		return message
	}
	return strings.Join(terms, " ")
}

// BuildSearchQuery builds the ranked condition query. Any one of three
// clauses makes a document eligible:
//   - name match, boost 3
//   - description and symptoms, boost 2, fuzzy
//   - category (boost 1.5) and treatments across fields
func BuildSearchQuery(text string, limit int) SearchRequest {
	return SearchRequest{
		Query: BoolQuery{Bool: BoolClause{
			Should: []any{
				MatchClause{Match: map[string]MatchField{
					"name": {Query: text, Boost: 3},
				}},
				MultiMatchClause{MultiMatch: MultiMatch{
					Query:     text,
					Fields:    []string{"description^2", "symptoms^2"},
					Type:      "best_fields",
					Fuzziness: "AUTO",
				}},
				MultiMatchClause{MultiMatch: MultiMatch{
					Query:  text,
					Fields: []string{"category^1.5", "treatments"},
					Type:   "cross_fields",
				}},
			},
			MinimumShouldMatch: 1,
		}},
		Size: limit,
	}
}
