package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"csvchat/internal/domain"
)

const (
	// FallbackNoData is returned when none of the downloaded files parse.
	FallbackNoData = "No valid data found in the downloaded files."
	// FallbackError is returned when the analysis call itself fails.
	FallbackError = "An error occurred during analysis. Please try again."

	previewRows = 10
)

// Analyzer answers questions about downloaded CSV files by embedding a data
// sample and summary statistics into one LLM chat call. It always returns a
// human-readable string; failures degrade to fixed fallback messages.
type Analyzer struct {
	model  domain.ChatModel
	logger *slog.Logger
}

// New creates an Analyzer backed by the given chat model.
func New(model domain.ChatModel, logger *slog.Logger) *Analyzer {
	return &Analyzer{model: model, logger: logger}
}

// Analyze loads the files, concatenates them, and asks the model to answer
// the query (or summarize, when the query is not a question).
func (a *Analyzer) Analyze(ctx context.Context, filePaths []string, query string) string {
	var frames []*frame
	for _, path := range filePaths {
		f, err := readFrame(path)
		if err != nil {
			a.logger.Warn("cannot load file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return FallbackNoData
	}

	combined := concatFrames(frames)
	preview := combined.head(previewRows).render()
	summary := describe(combined).render()

	prompt := fmt.Sprintf(`You are analyzing CSV data. Here is a sample of the data:
%s

Summary statistics of the data:
%s

User query: %q

If the query is specific, answer it based on the data. If the query is generic or not a question,
provide a summary of the data.`, preview, summary, query)

	a.logger.Debug("sending analysis query", slog.String("query", query))

	answer, err := a.model.Chat(ctx, []domain.ChatMessage{
		{Role: "system", Content: "You are a data analyst."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		a.logger.Error("analysis failed", slog.String("error", err.Error()))
		return FallbackError
	}
	return strings.TrimSpace(answer)
}
