package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvchat/internal/catalog/memory"
	"csvchat/internal/domain"
	"csvchat/internal/session"
)

func TestRefreshVocabularyPicksUpCatalogChanges(t *testing.T) {
	store := memory.NewStorage()
	store.Add(domain.Record{Name: "a.csv", Creator: "alice", Genre: "europe", Categories: []string{"sales"}, ContentType: domain.ContentTypeCSV}, nil)

	s := session.New(store)
	require.NoError(t, s.RefreshVocabulary(context.Background()))
	assert.Equal(t, []string{"europe"}, s.Vocab().Genres)
	assert.Equal(t, []string{"sales"}, s.Vocab().Categories)

	// vocabularies are not fetch-once: a later refresh sees new tags
	store.Add(domain.Record{Name: "b.csv", Creator: "bob", Genre: "asia", Categories: []string{"climate"}, ContentType: domain.ContentTypeCSV}, nil)
	require.NoError(t, s.RefreshVocabulary(context.Background()))
	assert.Equal(t, []string{"europe", "asia"}, s.Vocab().Genres)
	assert.Equal(t, []string{"sales", "climate"}, s.Vocab().Categories)
}

func TestFilesLifecycle(t *testing.T) {
	s := session.New(memory.NewStorage())
	assert.False(t, s.HasFiles())

	s.SetFiles([]string{"/tmp/a.csv", "/tmp/b.csv"})
	assert.True(t, s.HasFiles())
	assert.Equal(t, []string{"/tmp/a.csv", "/tmp/b.csv"}, s.Files())

	s.ClearFiles()
	assert.False(t, s.HasFiles())
	assert.Empty(t, s.Files())
}
