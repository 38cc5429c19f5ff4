package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"csvchat/internal/domain"
)

// Storage is an in-memory catalog backed by local files. It exists for
// offline demos and as a deterministic fixture in tests; it enforces the
// same subscribe-before-fetch rule as the real exchange.
type Storage struct {
	mu         sync.RWMutex
	genres     []string
	categories []string
	entries    []entry
	subscribed map[domain.Key]struct{}
}

type entry struct {
	rec     domain.Record
	content []byte
}

// NewStorage creates an empty in-memory catalog.
func NewStorage() *Storage {
	return &Storage{subscribed: make(map[domain.Key]struct{})}
}

// manifest is the YAML document describing a local catalog.
type manifest struct {
	Genres     []string `yaml:"genres"`
	Categories []string `yaml:"categories"`
	Products   []struct {
		Name        string   `yaml:"name"`
		Creator     string   `yaml:"creator"`
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		ContentType string   `yaml:"content_type"`
		Genre       string   `yaml:"genre"`
		Categories  []string `yaml:"categories"`
		File        string   `yaml:"file"`
	} `yaml:"products"`
}

// LoadManifest builds a catalog from a YAML manifest. Product files are
// resolved relative to the manifest's directory and read eagerly.
func LoadManifest(path string) (*Storage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	s := NewStorage()
	s.genres = m.Genres
	s.categories = m.Categories
	dir := filepath.Dir(path)
	for _, p := range m.Products {
		content, err := os.ReadFile(filepath.Join(dir, p.File))
		if err != nil {
			return nil, fmt.Errorf("read product file for %s/%s: %w", p.Creator, p.Name, err)
		}
		ct := p.ContentType
		if ct == "" {
			ct = domain.ContentTypeCSV
		}
		s.Add(domain.Record{
			Name:        p.Name,
			Creator:     p.Creator,
			Title:       p.Title,
			Description: p.Description,
			Size:        int64(len(content)),
			ContentType: ct,
			Genre:       p.Genre,
			Categories:  p.Categories,
		}, content)
	}
	return s, nil
}

// Add inserts a record and its content into the catalog.
func (s *Storage) Add(rec domain.Record, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{rec: rec, content: content})
	if rec.Genre != "" && !slices.Contains(s.genres, rec.Genre) {
		s.genres = append(s.genres, rec.Genre)
	}
	for _, c := range rec.Categories {
		if !slices.Contains(s.categories, c) {
			s.categories = append(s.categories, c)
		}
	}
}

func (s *Storage) Genres(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.genres), nil
}

func (s *Storage) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

// Query filters by one category, one genre and an optional content type,
// returning records in insertion order.
func (s *Storage) Query(ctx context.Context, category, genre, contentType string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Record
	for _, e := range s.entries {
		if e.rec.Genre != genre {
			continue
		}
		if !slices.Contains(e.rec.Categories, category) {
			continue
		}
		if contentType != "" && e.rec.ContentType != contentType {
			continue
		}
		out = append(out, e.rec)
	}
	return out, nil
}

// Subscribe grants access to the record's content.
func (s *Storage) Subscribe(ctx context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.rec.Key() == rec.Key() {
			s.subscribed[rec.Key()] = struct{}{}
			return nil
		}
	}
	return fmt.Errorf("unknown record %s/%s", rec.Creator, rec.Name)
}

// FetchContent returns the stored bytes. It fails when the record has not
// been subscribed to, mirroring the exchange's access rule.
func (s *Storage) FetchContent(ctx context.Context, rec domain.Record) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.subscribed[rec.Key()]; !ok {
		return nil, fmt.Errorf("not subscribed to %s/%s", rec.Creator, rec.Name)
	}
	for _, e := range s.entries {
		if e.rec.Key() == rec.Key() {
			return slices.Clone(e.content), nil
		}
	}
	return nil, fmt.Errorf("unknown record %s/%s", rec.Creator, rec.Name)
}
