package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"csvchat/internal/domain"
)

// Inferencer extracts catalog keywords from a free-text query with one LLM
// chat call. The model is instructed to pick only from the provided
// vocabularies; that constraint is not re-verified locally, the catalog
// simply returns nothing for tags it does not know.
type Inferencer struct {
	model  domain.ChatModel
	logger *slog.Logger
}

// New creates a keyword inferencer backed by the given chat model.
func New(model domain.ChatModel, logger *slog.Logger) *Inferencer {
	return &Inferencer{model: model, logger: logger}
}

const systemPrompt = "You are a helpful assistant."

// Infer asks the model for the categories and genres matching the query.
// A transport failure or an unparseable reply is returned as an error;
// callers are expected to degrade to the empty keyword set.
func (i *Inferencer) Infer(ctx context.Context, query string, genres, categories []string) (domain.KeywordSet, error) {
	prompt := fmt.Sprintf(`Extract zero or more categories and zero or more genres from the following query.
Use only the provided genres and categories.
Genres: %s
Categories: %s
Query: %q
Provide the response in JSON format with 'categories' and 'genres' as keys.`,
		strings.Join(genres, ", "), strings.Join(categories, ", "), query)

	i.logger.Debug("sending inference query", slog.String("query", query))

	raw, err := i.model.Chat(ctx, []domain.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return domain.KeywordSet{}, fmt.Errorf("keyword inference: %w", err)
	}
	i.logger.Debug("raw inference response", slog.String("response", raw))

	var parsed struct {
		Categories []string `json:"categories"`
		Genres     []string `json:"genres"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return domain.KeywordSet{}, fmt.Errorf("parse inference response: %w", err)
	}
	kw := domain.KeywordSet{Categories: parsed.Categories, Genres: parsed.Genres}
	i.logger.Info("inferred keywords",
		slog.Any("categories", kw.Categories),
		slog.Any("genres", kw.Genres))
	return kw, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
