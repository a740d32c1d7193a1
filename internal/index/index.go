package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mgtcty/manualqa/internal/domain"
)

// Index is a flat in-memory embedding index scanned exhaustively with
// squared Euclidean distance. Slots are assigned in insertion order and map
// 1:1 to section ids; slots are never reused or removed within a process.
//
// The index is safe for concurrent Search, but the intended discipline is a
// single owner populating it once and querying sequentially.
type Index struct {
	mu       sync.RWMutex
	embedder domain.Embedder
	vectors  [][]float32
	ids      []int64 // slot -> section id
}

func New(embedder domain.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Add embeds contents in one batch and appends the vectors to the index,
// recording a slot->id mapping for each. Embedding errors are propagated,
// never retried here.
func (x *Index) Add(ctx context.Context, contents []string, ids []int64) error {
	if len(contents) != len(ids) {
		return errors.New("contents and ids length mismatch")
	}
	if len(contents) == 0 {
		return nil
	}
	vectors, err := x.embedder.Encode(ctx, contents)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(contents) {
		return fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbedding, len(vectors), len(contents))
	}
	dim := x.embedder.Dimension()
	for _, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector dimension %d, want %d", domain.ErrEmbedding, len(v), dim)
		}
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = append(x.vectors, vectors...)
	x.ids = append(x.ids, ids...)
	return nil
}

// Search embeds the query and returns the topK closest stored vectors as
// (section id, distance) pairs, ascending by distance. Asking for more than
// the index holds returns everything; an empty index returns nothing.
func (x *Index) Search(ctx context.Context, query string, topK int) ([]domain.Candidate, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", topK)
	}
	if x.Size() == 0 {
		return nil, nil
	}
	vectors, err := x.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for query", domain.ErrEmbedding, len(vectors))
	}
	qv := vectors[0]

	x.mu.RLock()
	defer x.mu.RUnlock()
	distances := make([]float32, len(x.vectors))
	for i := range x.vectors {
		distances[i] = squaredL2(x.vectors[i], qv)
	}
	slots := argsortAsc(distances)
	if topK > len(slots) {
		topK = len(slots)
	}
	results := make([]domain.Candidate, 0, topK)
	for _, slot := range slots {
		if len(results) == topK {
			break
		}
		if slot >= len(x.ids) {
			// unmapped slot, skip defensively
			continue
		}
		results = append(results, domain.Candidate{SectionID: x.ids[slot], Distance: distances[slot]})
	}
	return results, nil
}

// Size reports the number of stored vectors.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Clear drops all vectors and id mappings.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = nil
	x.ids = nil
}

func squaredL2(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func argsortAsc(vals []float32) []int {
	slots := make([]int, len(vals))
	for i := range slots {
		slots[i] = i
	}
	sort.SliceStable(slots, func(i, j int) bool { return vals[slots[i]] < vals[slots[j]] })
	return slots
}
