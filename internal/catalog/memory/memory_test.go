package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvchat/internal/catalog/memory"
	"csvchat/internal/domain"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("region,amount\neu,100\n"), 0o644))
	manifest := `
genres: [europe, asia]
categories: [sales, climate]
products:
  - name: sales.csv
    creator: alice
    title: EU Sales
    genre: europe
    categories: [sales]
    file: sales.csv
`
	manifestPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	store, err := memory.LoadManifest(manifestPath)
	require.NoError(t, err)

	genres, err := store.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"europe", "asia"}, genres)

	categories, err := store.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "climate"}, categories)

	recs, err := store.Query(context.Background(), "sales", "europe", domain.ContentTypeCSV)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "EU Sales", recs[0].Title)
	assert.Equal(t, int64(len("region,amount\neu,100\n")), recs[0].Size)
	assert.Equal(t, domain.ContentTypeCSV, recs[0].ContentType)
}

func TestQuery_FilterSemantics(t *testing.T) {
	store := memory.NewStorage()
	match := domain.Record{Name: "a.csv", Creator: "alice", ContentType: domain.ContentTypeCSV, Genre: "europe", Categories: []string{"sales", "finance"}}
	wrongGenre := domain.Record{Name: "b.csv", Creator: "bob", ContentType: domain.ContentTypeCSV, Genre: "asia", Categories: []string{"sales"}}
	wrongType := domain.Record{Name: "c.csv", Creator: "carol", ContentType: "application/json", Genre: "europe", Categories: []string{"sales"}}
	store.Add(match, nil)
	store.Add(wrongGenre, nil)
	store.Add(wrongType, nil)

	recs, err := store.Query(context.Background(), "sales", "europe", domain.ContentTypeCSV)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a.csv", recs[0].Name)

	// empty content type matches everything in the genre/category slice
	recs, err = store.Query(context.Background(), "sales", "europe", "")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestFetchContent_RequiresSubscription(t *testing.T) {
	store := memory.NewStorage()
	rec := domain.Record{Name: "a.csv", Creator: "alice", ContentType: domain.ContentTypeCSV, Genre: "g", Categories: []string{"c"}}
	store.Add(rec, []byte("payload"))

	_, err := store.FetchContent(context.Background(), rec)
	require.Error(t, err)

	require.NoError(t, store.Subscribe(context.Background(), rec))
	content, err := store.FetchContent(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), content)
}

func TestSubscribe_UnknownRecordIsDenied(t *testing.T) {
	store := memory.NewStorage()
	err := store.Subscribe(context.Background(), domain.Record{Name: "ghost.csv", Creator: "nobody"})
	require.Error(t, err)
}
