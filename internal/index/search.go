package index

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/sha1n/codescope/internal/domain"
)

// DefaultLimit is the number of hits returned when Query.Limit is unset.
const DefaultLimit = 20

// Query describes a suggestion search. Text is matched against description,
// code and rationale; the remaining fields are exact filters.
type Query struct {
	Text     string
	Category string
	Severity string
	File     string
	Limit    int
}

func (q Query) hasFilters() bool {
	return q.Category != "" || q.Severity != "" || q.File != ""
}

// Hit is a single search result.
type Hit struct {
	Rank        int
	File        string
	Line        int
	Category    string
	Severity    string
	Description string
	Score       float64
	Fragments   []string
}

// Results holds search hits and the total number of matches.
type Results struct {
	Total uint64
	Hits  []Hit
}

// Search runs q against idx.
func Search(idx bleve.Index, q Query) (*Results, error) {
	if strings.TrimSpace(q.Text) == "" && !q.hasFilters() {
		return nil, ErrEmptyQuery
	}

	req := bleve.NewSearchRequest(BuildQuery(q))
	req.Size = q.Limit
	if req.Size <= 0 {
		req.Size = DefaultLimit
	}
	req.Fields = []string{
		domain.SuggestionFieldRank,
		domain.SuggestionFieldFilePath,
		domain.SuggestionFieldLine,
		domain.SuggestionFieldCategory,
		domain.SuggestionFieldSeverity,
		domain.SuggestionFieldDescription,
	}
	if strings.TrimSpace(q.Text) == "" {
		// Filter-only searches list suggestions in rank order.
		req.SortBy([]string{domain.SuggestionFieldRank})
	} else {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField(domain.SuggestionFieldDescription)
		req.Highlight.AddField(domain.SuggestionFieldCode)
	}

	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := &Results{Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		hit := Hit{
			Rank:        intField(h.Fields, domain.SuggestionFieldRank),
			File:        stringField(h.Fields, domain.SuggestionFieldFilePath),
			Line:        intField(h.Fields, domain.SuggestionFieldLine),
			Category:    stringField(h.Fields, domain.SuggestionFieldCategory),
			Severity:    stringField(h.Fields, domain.SuggestionFieldSeverity),
			Description: stringField(h.Fields, domain.SuggestionFieldDescription),
			Score:       h.Score,
		}
		for _, field := range []string{domain.SuggestionFieldDescription, domain.SuggestionFieldCode} {
			hit.Fragments = append(hit.Fragments, h.Fragments[field]...)
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// BuildQuery constructs a Bleve query from q.
func BuildQuery(q Query) query.Query {
	var search query.Query
	if text := strings.TrimSpace(q.Text); text != "" {
		description := bleve.NewMatchQuery(text)
		description.SetField(domain.SuggestionFieldDescription)
		description.SetBoost(2.0)

		code := bleve.NewMatchQuery(text)
		code.SetField(domain.SuggestionFieldCode)

		rationale := bleve.NewMatchQuery(text)
		rationale.SetField(domain.SuggestionFieldRationale)

		search = bleve.NewDisjunctionQuery(description, code, rationale)
	} else {
		search = bleve.NewMatchAllQuery()
	}

	if !q.hasFilters() {
		return search
	}

	must := []query.Query{search}
	for field, value := range map[string]string{
		domain.SuggestionFieldCategory: q.Category,
		domain.SuggestionFieldSeverity: strings.ToLower(q.Severity),
		domain.SuggestionFieldFilePath: q.File,
	} {
		if value == "" {
			continue
		}
		term := bleve.NewTermQuery(value)
		term.SetField(field)
		must = append(must, term)
	}
	return bleve.NewConjunctionQuery(must...)
}

func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func intField(fields map[string]any, name string) int {
	if v, ok := fields[name].(float64); ok {
		return int(v)
	}
	return 0
}
