package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/mgtcty/manualqa/internal/domain"
)

// Reranker reorders a small candidate set by cross-encoder relevance. It is
// the precise second stage after the index's cheap approximate recall;
// scoring every section in the corpus would be infeasible, scoring the
// retrieved handful is not.
type Reranker struct {
	scorer domain.Scorer
}

func New(scorer domain.Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores each passage against the query and returns the topK passages
// sorted by score descending. Ties keep the original input order. Scores are
// not exposed; downstream consumers only need ranked text. On scoring
// failure no partial result is returned.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []string, topK int) ([]string, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", topK)
	}
	if len(passages) == 0 {
		return nil, nil
	}
	scores, err := r.scorer.Score(ctx, query, passages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRerank, err)
	}
	if len(scores) != len(passages) {
		return nil, fmt.Errorf("%w: got %d scores for %d passages", domain.ErrRerank, len(scores), len(passages))
	}
	order := make([]int, len(passages))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	if topK > len(order) {
		topK = len(order)
	}
	ranked := make([]string, topK)
	for i := 0; i < topK; i++ {
		ranked[i] = passages[order[i]]
	}
	return ranked, nil
}
