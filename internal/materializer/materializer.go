package materializer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"csvchat/internal/domain"
)

// Materializer persists records to local files: subscribe, fetch, write.
// Files are named after the record's catalog name; two creators using the
// same name collide, which matches the exchange's own download behavior.
type Materializer struct {
	catalog domain.Catalog
	logger  *slog.Logger
}

// New creates a Materializer over the given catalog.
func New(catalog domain.Catalog, logger *slog.Logger) *Materializer {
	return &Materializer{catalog: catalog, logger: logger}
}

// Failure records one record that could not be materialized.
type Failure struct {
	Record domain.Record
	Err    error
}

// Materialize downloads each record into downloadDir, tolerating individual
// failures: a record that fails to subscribe, fetch or write is logged and
// skipped, and the batch continues. Returned paths keep the input's relative
// order. Partially written files from a failed record are not cleaned up.
func (m *Materializer) Materialize(ctx context.Context, records []domain.Record, downloadDir string) ([]string, []Failure) {
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		m.logger.Error("cannot create download directory",
			slog.String("dir", downloadDir),
			slog.String("error", err.Error()))
		failures := make([]Failure, len(records))
		for i, rec := range records {
			failures[i] = Failure{Record: rec, Err: err}
		}
		return nil, failures
	}

	var paths []string
	var failures []Failure
	for _, rec := range records {
		path, err := m.materializeOne(ctx, rec, downloadDir)
		if err != nil {
			m.logger.Warn("skipping record",
				slog.String("name", rec.Name),
				slog.String("creator", rec.Creator),
				slog.String("error", err.Error()))
			failures = append(failures, Failure{Record: rec, Err: err})
			continue
		}
		m.logger.Info("downloaded file", slog.String("path", path))
		paths = append(paths, path)
	}
	return paths, failures
}

func (m *Materializer) materializeOne(ctx context.Context, rec domain.Record, downloadDir string) (string, error) {
	if err := m.catalog.Subscribe(ctx, rec); err != nil {
		return "", fmt.Errorf("subscribe %s/%s: %w", rec.Creator, rec.Name, err)
	}
	content, err := m.catalog.FetchContent(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("fetch %s/%s: %w", rec.Creator, rec.Name, err)
	}
	path := filepath.Join(downloadDir, rec.Name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
