package session

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"csvchat/internal/domain"
)

// Vocabulary holds the catalog's controlled tag vocabularies.
type Vocabulary struct {
	Genres     []string
	Categories []string
}

// Session is the per-run state the chat loop threads through the pipeline:
// the current vocabularies and the files downloaded for the active query.
// Keeping this explicit (instead of package-level variables) lets callers
// refresh stale vocabularies mid-session.
type Session struct {
	mu      sync.RWMutex
	catalog domain.Catalog
	vocab   Vocabulary
	files   []string
}

// New creates a session over the given catalog. Call RefreshVocabulary
// before the first retrieval.
func New(catalog domain.Catalog) *Session {
	return &Session{catalog: catalog}
}

// RefreshVocabulary re-fetches both vocabularies from the catalog.
func (s *Session) RefreshVocabulary(ctx context.Context) error {
	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		return fmt.Errorf("list genres: %w", err)
	}
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocab = Vocabulary{Genres: genres, Categories: categories}
	return nil
}

// Vocab returns the last fetched vocabularies.
func (s *Session) Vocab() Vocabulary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Vocabulary{
		Genres:     slices.Clone(s.vocab.Genres),
		Categories: slices.Clone(s.vocab.Categories),
	}
}

// SetFiles records the files downloaded for the active query.
func (s *Session) SetFiles(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = slices.Clone(paths)
}

// Files returns the files downloaded for the active query.
func (s *Session) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.files)
}

// ClearFiles discards the downloaded file list, marking them stale. The
// files themselves stay on disk.
func (s *Session) ClearFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}

// HasFiles reports whether the active query has downloaded files.
func (s *Session) HasFiles() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files) > 0
}
