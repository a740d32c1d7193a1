// Package service contains the query orchestrator: the top-level control
// flow from a raw user question to a grounded answer.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgtcty/manualqa/internal/domain"
	"github.com/mgtcty/manualqa/internal/prompt"
)

// Retrieval depths carried over from the original pipeline tuning.
const (
	DefaultTopKRetrieve = 20
	DefaultTopKRerank   = 4
)

// Orchestrator drives embed -> retrieve -> rerank -> assemble -> generate.
// It owns all coordination; no stage holds a back-reference to another. The
// pipeline is synchronous: each stage consumes the previous stage's output.
type Orchestrator struct {
	index        domain.VectorIndex
	reranker     domain.PassageReranker
	generator    domain.AnswerGenerator
	store        domain.SectionStore
	topKRetrieve int
	topKRerank   int
}

func New(index domain.VectorIndex, reranker domain.PassageReranker, generator domain.AnswerGenerator, store domain.SectionStore, topKRetrieve, topKRerank int) *Orchestrator {
	if topKRetrieve < 1 {
		topKRetrieve = DefaultTopKRetrieve
	}
	if topKRerank < 1 {
		topKRerank = DefaultTopKRerank
	}
	return &Orchestrator{
		index:        index,
		reranker:     reranker,
		generator:    generator,
		store:        store,
		topKRetrieve: topKRetrieve,
		topKRerank:   topKRerank,
	}
}

// Reindex drops the current vectors and embeds the whole corpus from the
// store. Populate once at session start; Answer only falls back to it when
// the index is still empty, so sections are never embedded twice.
func (o *Orchestrator) Reindex(ctx context.Context) error {
	sections, err := o.store.AllSections(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}
	if len(sections) == 0 {
		return domain.ErrEmptyCorpus
	}
	contents := make([]string, len(sections))
	ids := make([]int64, len(sections))
	for i, s := range sections {
		contents[i] = s.Content
		ids[i] = s.ID
	}
	o.index.Clear()
	return o.index.Add(ctx, contents, ids)
}

// Answer runs the full pipeline for one query and returns the final answer
// text. Trivial intents (greeting, manual listing) short-circuit before any
// model is invoked.
func (o *Orchestrator) Answer(ctx context.Context, query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", domain.ErrEmptyQuery
	}
	if canned, ok := o.canned(ctx, q); ok {
		return canned, nil
	}
	if o.index.Size() == 0 {
		if err := o.Reindex(ctx); err != nil {
			return "", err
		}
	}
	candidates, err := o.index.Search(ctx, q, o.topKRetrieve)
	if err != nil {
		return "", err
	}
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.SectionID
	}
	sections, err := o.store.ResolveSections(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}
	if len(sections) < len(ids) {
		return "", fmt.Errorf("%w: resolved %d of %d sections", domain.ErrResolution, len(sections), len(ids))
	}
	// Reranking returns text only, so locators are re-paired by content
	// afterwards. Losing this pairing would cite the wrong pages.
	locatorOf := make(map[string]string, len(sections))
	contents := make([]string, len(sections))
	for i, s := range sections {
		contents[i] = s.Content
		if _, seen := locatorOf[s.Content]; !seen {
			locatorOf[s.Content] = s.Locator
		}
	}
	passages, err := o.reranker.Rerank(ctx, q, contents, o.topKRerank)
	if err != nil {
		return "", err
	}
	locators := make([]string, len(passages))
	for i, p := range passages {
		locators[i] = locatorOf[p]
	}
	items, err := prompt.Assemble(passages, locators)
	if err != nil {
		return "", err
	}
	return o.generator.Generate(ctx, q, items)
}

const greetingReply = "Hello! How can I help you with the manuals today?"

func (o *Orchestrator) canned(ctx context.Context, q string) (string, bool) {
	lower := strings.ToLower(q)
	if strings.Contains(lower, "hello") {
		return greetingReply, true
	}
	if strings.Contains(lower, "manuals") {
		manuals, err := o.store.Manuals(ctx)
		if err != nil || len(manuals) == 0 {
			return "There are no manuals loaded yet. Please add new manuals.", true
		}
		titles := make([]string, len(manuals))
		for i, m := range manuals {
			titles[i] = m.Title
		}
		return fmt.Sprintf("I have the following manuals available: %s.", strings.Join(titles, ", ")), true
	}
	return "", false
}
