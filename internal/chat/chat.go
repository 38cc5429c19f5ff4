package chat

import (
	"context"
	"log/slog"

	"csvchat/internal/analyzer"
	"csvchat/internal/materializer"
	"csvchat/internal/retriever"
	"csvchat/internal/session"
)

// Service wires retrieval, materialization and analysis into the two
// operations the chat surface needs. It owns no state of its own; all
// per-run state lives in the Session.
type Service struct {
	retriever    *retriever.Retriever
	materializer *materializer.Materializer
	analyzer     *analyzer.Analyzer
	session      *session.Session
	downloadDir  string
	logger       *slog.Logger
}

// New assembles the chat service.
func New(
	ret *retriever.Retriever,
	mat *materializer.Materializer,
	ana *analyzer.Analyzer,
	sess *session.Session,
	downloadDir string,
	logger *slog.Logger,
) *Service {
	return &Service{
		retriever:    ret,
		materializer: mat,
		analyzer:     ana,
		session:      sess,
		downloadDir:  downloadDir,
		logger:       logger,
	}
}

// SearchOutcome is everything one top-level query produced.
type SearchOutcome struct {
	Result retriever.Result
	Paths  []string
	Failed []materializer.Failure
}

// Search runs retrieve then materialize for a fresh top-level query and
// records the downloaded files on the session.
func (s *Service) Search(ctx context.Context, query string) (SearchOutcome, error) {
	vocab := s.session.Vocab()
	res, err := s.retriever.Retrieve(ctx, query, vocab.Genres, vocab.Categories)
	if err != nil {
		return SearchOutcome{}, err
	}
	out := SearchOutcome{Result: res}
	if len(res.Records) == 0 {
		return out, nil
	}
	out.Paths, out.Failed = s.materializer.Materialize(ctx, res.Records, s.downloadDir)
	s.session.SetFiles(out.Paths)
	return out, nil
}

// Analyze answers a question about the files downloaded by the last Search.
func (s *Service) Analyze(ctx context.Context, query string) string {
	return s.analyzer.Analyze(ctx, s.session.Files(), query)
}

// Reset discards the session's downloaded file list so the next Search
// starts fresh.
func (s *Service) Reset() {
	s.session.ClearFiles()
}

// HasFiles reports whether the session currently holds downloaded files.
func (s *Service) HasFiles() bool {
	return s.session.HasFiles()
}
