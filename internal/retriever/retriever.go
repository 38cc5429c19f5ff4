package retriever

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"csvchat/internal/domain"
)

// Retriever turns one free-text query into a deduplicated set of matching
// records: one inference call, a bounded concurrent fan-out over the
// categories × genres cross product, then an order-preserving dedup by
// (name, creator).
type Retriever struct {
	inferencer domain.KeywordInferencer
	catalog    domain.Catalog
	workers    int
	logger     *slog.Logger
}

// New creates a Retriever. workers bounds the number of in-flight catalog
// queries; values below one fall back to the default.
func New(inferencer domain.KeywordInferencer, catalog domain.Catalog, workers int, logger *slog.Logger) *Retriever {
	if workers < 1 {
		workers = 4
	}
	return &Retriever{inferencer: inferencer, catalog: catalog, workers: workers, logger: logger}
}

// QueryError records one failed (category, genre) combination.
type QueryError struct {
	Category string
	Genre    string
	Err      error
}

// Result is the outcome of one retrieval. Soft failures are carried here
// instead of the error return, so callers can tell "zero matches" apart
// from "keyword service unavailable" or "some catalog calls failed".
type Result struct {
	Records      []domain.Record
	Keywords     domain.KeywordSet
	InferenceErr error
	QueryErrs    []QueryError
}

// Degraded reports whether any step of the retrieval failed softly.
func (r Result) Degraded() bool { return r.InferenceErr != nil || len(r.QueryErrs) > 0 }

type combination struct {
	category string
	genre    string
}

// Retrieve maps the query onto the known vocabularies and queries the
// catalog for every (category, genre) combination. Per-combination failures
// are isolated: whatever succeeded is still returned. The error return is
// reserved for contract misuse.
func (r *Retriever) Retrieve(ctx context.Context, query string, knownGenres, knownCategories []string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, errors.New("empty query")
	}
	id := uuid.NewString()

	kw, err := r.inferencer.Infer(ctx, query, knownGenres, knownCategories)
	if err != nil {
		r.logger.Error("keyword inference failed",
			slog.String("retrieval_id", id),
			slog.String("error", err.Error()))
		return Result{InferenceErr: err}, nil
	}
	if kw.Empty() {
		// AND semantics across the two axes: a query that cannot be mapped
		// to at least one genre and one category retrieves nothing.
		r.logger.Info("no usable keywords inferred",
			slog.String("retrieval_id", id),
			slog.String("query", query))
		return Result{Keywords: kw}, nil
	}

	combos := make([]combination, 0, len(kw.Categories)*len(kw.Genres))
	for _, c := range kw.Categories {
		for _, g := range kw.Genres {
			combos = append(combos, combination{category: c, genre: g})
		}
	}
	r.logger.Info("catalog fan-out",
		slog.String("retrieval_id", id),
		slog.Int("combinations", len(combos)))

	// Indexed collection keeps the sequential contract's ordering even
	// though the calls run concurrently: dedup scans combinations in
	// cross-product order after the join.
	perCombo := make([][]domain.Record, len(combos))
	comboErrs := make([]error, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, cb := range combos {
		g.Go(func() error {
			recs, err := r.catalog.Query(gctx, cb.category, cb.genre, domain.ContentTypeCSV)
			if err != nil {
				comboErrs[i] = err
				r.logger.Warn("catalog query failed",
					slog.String("retrieval_id", id),
					slog.String("category", cb.category),
					slog.String("genre", cb.genre),
					slog.String("error", err.Error()))
				return nil // non-fatal
			}
			perCombo[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[domain.Key]struct{})
	var records []domain.Record
	var queryErrs []QueryError
	for i, cb := range combos {
		if comboErrs[i] != nil {
			queryErrs = append(queryErrs, QueryError{Category: cb.category, Genre: cb.genre, Err: comboErrs[i]})
			continue
		}
		for _, rec := range perCombo[i] {
			key := rec.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, rec)
		}
	}

	r.logger.Info("retrieval complete",
		slog.String("retrieval_id", id),
		slog.Int("records", len(records)),
		slog.Int("failed_combinations", len(queryErrs)))
	return Result{Records: records, Keywords: kw, QueryErrs: queryErrs}, nil
}
