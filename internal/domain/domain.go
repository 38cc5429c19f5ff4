package domain

import "context"

// ContentTypeCSV is the only content type this pipeline retrieves.
const ContentTypeCSV = "text/csv"

// Record is a reference to one dataset hosted on the data exchange.
type Record struct {
	Name        string
	Creator     string
	Title       string
	Description string
	Size        int64
	ContentType string
	Genre       string
	Categories  []string
}

// Key identifies a Record across the catalog. Two listings sharing a name
// and creator refer to the same dataset, no matter which tag combination
// surfaced them.
type Key struct {
	Name    string
	Creator string
}

// Key returns the deduplication key for the record.
func (r Record) Key() Key { return Key{Name: r.Name, Creator: r.Creator} }

// KeywordSet is the {categories, genres} pair inferred from a free-text query.
type KeywordSet struct {
	Categories []string
	Genres     []string
}

// Empty reports whether either axis has no values. Retrieval needs at least
// one category AND one genre, so an empty axis means zero catalog calls.
func (k KeywordSet) Empty() bool { return len(k.Categories) == 0 || len(k.Genres) == 0 }

// ChatMessage is one turn of a chat-completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// Catalog wraps the external data exchange holding records and their content.
type Catalog interface {
	Genres(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Query(ctx context.Context, category, genre, contentType string) ([]Record, error)
	Subscribe(ctx context.Context, rec Record) error
	FetchContent(ctx context.Context, rec Record) ([]byte, error)
}

// KeywordInferencer maps a free-text query onto the catalog's controlled
// vocabularies. Implementations must treat a response that strays outside
// the provided vocabularies as the model's fault, not the caller's.
type KeywordInferencer interface {
	Infer(ctx context.Context, query string, genres, categories []string) (KeywordSet, error)
}

// ChatModel is a hosted LLM chat endpoint.
type ChatModel interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}
