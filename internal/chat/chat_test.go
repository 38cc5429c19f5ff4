package chat_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvchat/internal/analyzer"
	"csvchat/internal/catalog/memory"
	"csvchat/internal/chat"
	"csvchat/internal/domain"
	"csvchat/internal/inference"
	"csvchat/internal/materializer"
	"csvchat/internal/retriever"
	"csvchat/internal/session"
)

// scriptedModel plays both LLM roles: keyword inference and data analysis,
// told apart by the system prompt, the same way the real model is prompted.
type scriptedModel struct {
	keywords string
	answer   string
}

func (s *scriptedModel) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if len(messages) > 0 && strings.Contains(messages[0].Content, "data analyst") {
		return s.answer, nil
	}
	return s.keywords, nil
}

func TestSearchThenAnalyzeEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStorage()
	store.Add(domain.Record{
		Name: "sales.csv", Creator: "alice", Title: "EU Sales",
		ContentType: domain.ContentTypeCSV, Genre: "europe", Categories: []string{"sales"},
	}, []byte("region,amount\neu,100\n"))

	model := &scriptedModel{
		keywords: `{"categories": ["sales"], "genres": ["europe"]}`,
		answer:   "Total amount is 100.",
	}

	sess := session.New(store)
	require.NoError(t, sess.RefreshVocabulary(context.Background()))

	svc := chat.New(
		retriever.New(inference.New(model, logger), store, 2, logger),
		materializer.New(store, logger),
		analyzer.New(model, logger),
		sess,
		t.TempDir(),
		logger,
	)

	out, err := svc.Search(context.Background(), "how are european sales doing?")
	require.NoError(t, err)
	require.Len(t, out.Result.Records, 1)
	assert.Equal(t, "EU Sales", out.Result.Records[0].Title)
	require.Len(t, out.Paths, 1)
	assert.Empty(t, out.Failed)
	assert.True(t, svc.HasFiles())

	answer := svc.Analyze(context.Background(), "what's the total?")
	assert.Equal(t, "Total amount is 100.", answer)

	svc.Reset()
	assert.False(t, svc.HasFiles())
	// with no files left, analysis degrades to the fixed fallback
	assert.Equal(t, analyzer.FallbackNoData, svc.Analyze(context.Background(), "anything"))
}

func TestSearchWithNoMatchesLeavesSessionEmpty(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStorage()
	model := &scriptedModel{keywords: `{"categories": [], "genres": []}`}

	sess := session.New(store)
	svc := chat.New(
		retriever.New(inference.New(model, logger), store, 2, logger),
		materializer.New(store, logger),
		analyzer.New(model, logger),
		sess,
		t.TempDir(),
		logger,
	)

	out, err := svc.Search(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Empty(t, out.Result.Records)
	assert.Empty(t, out.Paths)
	assert.False(t, svc.HasFiles())
}
