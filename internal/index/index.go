// Package index stores ranked suggestions in a Bleve full-text index.
package index

import (
	"errors"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/sha1n/codescope/internal/domain"
)

// MaxBatchSize is the maximum number of documents per batch.
const MaxBatchSize = 100

// ErrEmptyQuery is returned for a search without text and without filters.
var ErrEmptyQuery = errors.New("query cannot be empty")

// CreateIndexMapping creates the Bleve index mapping for suggestion documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Free text, analyzed
	for _, field := range []string{
		domain.SuggestionFieldDescription,
		domain.SuggestionFieldCode,
		domain.SuggestionFieldRationale,
	} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = standard.Name
		f.Store = true
		f.IncludeTermVectors = true
		docMapping.AddFieldMappingsAt(field, f)
	}

	// Filters, not analyzed
	for _, field := range []string{
		domain.SuggestionFieldCategory,
		domain.SuggestionFieldSeverity,
		domain.SuggestionFieldFilePath,
	} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = true
		docMapping.AddFieldMappingsAt(field, f)
	}

	for _, field := range []string{domain.SuggestionFieldRank, domain.SuggestionFieldLine} {
		f := bleve.NewNumericFieldMapping()
		f.Store = true
		docMapping.AddFieldMappingsAt(field, f)
	}

	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.SuggestionFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// NewMemory creates an in-memory index.
func NewMemory() (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(CreateIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	return idx, nil
}

// OpenForRead opens an existing on-disk index.
func OpenForRead(path string) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}
	return idx, nil
}

// Exists checks if an index exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Rebuild replaces the index at path with the given ranked suggestions and
// returns the number of indexed documents.
func Rebuild(path string, ranked []domain.Suggestion) (count int, err error) {
	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("failed to remove old index: %w", err)
	}

	idx, err := bleve.New(path, CreateIndexMapping())
	if err != nil {
		return 0, fmt.Errorf("failed to create index: %w", err)
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Add(idx, ranked)
}

// Add indexes ranked suggestions in batches. Document IDs carry the rank, so
// re-adding the same list overwrites rather than duplicates.
func Add(idx bleve.Index, ranked []domain.Suggestion) (int, error) {
	batch := idx.NewBatch()
	total := 0

	for i, s := range ranked {
		doc := domain.NewSuggestionDocument(i, s)
		if err := batch.Index(doc.ID, doc); err != nil {
			return total, fmt.Errorf("failed to index %s: %w", doc.ID, err)
		}
		if n := batch.Size(); n >= MaxBatchSize {
			if err := idx.Batch(batch); err != nil {
				return total, fmt.Errorf("batch index failed: %w", err)
			}
			total += n
			batch.Reset()
		}
	}

	if batch.Size() > 0 {
		n := batch.Size()
		if err := idx.Batch(batch); err != nil {
			return total, fmt.Errorf("final batch index failed: %w", err)
		}
		total += n
	}
	return total, nil
}
