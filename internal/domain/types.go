package domain

import "context"

// EmbeddingDimension is the vector size produced by the default embedding
// model (all-MiniLM-L6-v2).
const EmbeddingDimension = 384

// Section is a single retrievable unit of a manual. Sections are created at
// ingestion time and never mutated by the query pipeline.
type Section struct {
	ID      int64
	Content string
	Locator string // human-facing position reference, usually a page number
	Title   string
}

// SectionRecord is the shape produced by ingestion before the store assigns
// an id.
type SectionRecord struct {
	Number  string // page number the section starts on
	Title   string
	Content string
}

// Manual is a stored manual document that owns a set of sections.
type Manual struct {
	ID          int64
	Title       string
	Version     string
	ReleaseDate string
}

// Candidate is one retrieval hit: a section id with its squared Euclidean
// distance to the query vector. Lower distance means more relevant.
type Candidate struct {
	SectionID int64
	Distance  float32
}

// ContextItem is one entry of the prompt context handed to generation.
// Position is 1-based and reflects the reranked order.
type ContextItem struct {
	Position int
	Passage  string
	Locator  string
}

// Embedder converts text into fixed-dimension vectors. Encode is batched and
// must be deterministic for identical input.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Scorer assigns a relevance score to each (query, passage) pair by encoding
// them jointly, cross-encoder style. Scores are returned in passage order.
type Scorer interface {
	Score(ctx context.Context, query string, passages []string) ([]float32, error)
}

// Completer runs bounded text generation. The returned string is the raw
// model output including the rendered conversation and its turn markers, not
// just the continuation.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxNewTokens int, stop string) (string, error)
}

// SectionStore resolves section ids back to content and locators.
type SectionStore interface {
	ResolveSections(ctx context.Context, ids []int64) ([]Section, error)
	AllSections(ctx context.Context) ([]Section, error)
	Manuals(ctx context.Context) ([]Manual, error)
}

// VectorIndex maps section contents to searchable embeddings.
type VectorIndex interface {
	Add(ctx context.Context, contents []string, ids []int64) error
	Search(ctx context.Context, query string, topK int) ([]Candidate, error)
	Size() int
	Clear()
}

// PassageReranker reorders candidate passages by fine-grained relevance and
// keeps the top topK. Only the passage text is returned.
type PassageReranker interface {
	Rerank(ctx context.Context, query string, passages []string, topK int) ([]string, error)
}

// AnswerGenerator turns a question and its prompt context into a grounded
// answer.
type AnswerGenerator interface {
	Generate(ctx context.Context, query string, items []ContextItem) (string, error)
}
