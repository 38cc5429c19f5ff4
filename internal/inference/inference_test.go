package inference_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvchat/internal/domain"
	"csvchat/internal/inference"
)

type stubModel struct {
	reply    string
	err      error
	lastUser string
}

func (s *stubModel) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	for _, m := range messages {
		if m.Role == "user" {
			s.lastUser = m.Content
		}
	}
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInfer_ParsesStructuredResponse(t *testing.T) {
	model := &stubModel{reply: `{"categories": ["sales"], "genres": ["europe", "asia"]}`}
	inf := inference.New(model, testLogger())
	kw, err := inf.Infer(context.Background(), "sales in europe", []string{"europe", "asia"}, []string{"sales", "climate"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, kw.Categories)
	assert.Equal(t, []string{"europe", "asia"}, kw.Genres)
	assert.False(t, kw.Empty())
}

func TestInfer_PromptCarriesBothVocabularies(t *testing.T) {
	model := &stubModel{reply: `{"categories": [], "genres": []}`}
	inf := inference.New(model, testLogger())
	_, err := inf.Infer(context.Background(), "anything", []string{"europe"}, []string{"sales", "climate"})
	require.NoError(t, err)
	assert.Contains(t, model.lastUser, "europe")
	assert.Contains(t, model.lastUser, "sales, climate")
	assert.Contains(t, model.lastUser, `"anything"`)
}

func TestInfer_ToleratesMarkdownFences(t *testing.T) {
	model := &stubModel{reply: "```json\n{\"categories\": [\"sales\"], \"genres\": [\"europe\"]}\n```"}
	inf := inference.New(model, testLogger())
	kw, err := inf.Infer(context.Background(), "q", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, kw.Categories)
	assert.Equal(t, []string{"europe"}, kw.Genres)
}

func TestInfer_MalformedResponseIsAnError(t *testing.T) {
	model := &stubModel{reply: "I think you want sales data from Europe."}
	inf := inference.New(model, testLogger())
	_, err := inf.Infer(context.Background(), "q", nil, nil)
	require.Error(t, err)
}

func TestInfer_TransportErrorIsAnError(t *testing.T) {
	model := &stubModel{err: errors.New("connection refused")}
	inf := inference.New(model, testLogger())
	_, err := inf.Infer(context.Background(), "q", nil, nil)
	require.Error(t, err)
}

func TestKeywordSet_EmptyAxes(t *testing.T) {
	assert.True(t, domain.KeywordSet{}.Empty())
	assert.True(t, domain.KeywordSet{Categories: []string{"a"}}.Empty())
	assert.True(t, domain.KeywordSet{Genres: []string{"g"}}.Empty())
	assert.False(t, domain.KeywordSet{Categories: []string{"a"}, Genres: []string{"g"}}.Empty())
}
