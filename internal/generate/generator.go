// Package generate builds the grounded-answer prompt, runs the completion
// capability and extracts the clean reply from the raw model output.
package generate

import (
	"context"
	"fmt"

	"github.com/mgtcty/manualqa/internal/domain"
	"github.com/mgtcty/manualqa/internal/prompt"
)

const systemDirective = "You are a helpful assistant specialized in Engineering Manuals and Engineering Principles. Answer ONLY using the given manual."

// DefaultMaxNewTokens bounds the generated continuation length.
const DefaultMaxNewTokens = 256

// Generator wraps a text-generation capability.
type Generator struct {
	completer    domain.Completer
	extractor    Extractor
	maxNewTokens int
}

func New(completer domain.Completer, extractor Extractor, maxNewTokens int) *Generator {
	if maxNewTokens <= 0 {
		maxNewTokens = DefaultMaxNewTokens
	}
	return &Generator{completer: completer, extractor: extractor, maxNewTokens: maxNewTokens}
}

// Generate renders the two-turn instruction (system directive plus context
// and question), invokes bounded generation with an explicit end-of-turn
// stop, and returns the extracted answer.
func (g *Generator) Generate(ctx context.Context, query string, items []domain.ContextItem) (string, error) {
	p := BuildPrompt(query, items)
	raw, err := g.completer.Complete(ctx, p, g.maxNewTokens, llamaTurnEnd)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return g.extractor.Extract(raw), nil
}

// BuildPrompt renders the Llama-3 chat template for the system and user
// turns, ending with an open assistant header so the model continues with
// the answer.
func BuildPrompt(query string, items []domain.ContextItem) string {
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer concisely and accurately based on the above context.",
		prompt.Render(items), query)
	return "<|begin_of_text|>" +
		"<|start_header_id|>system<|end_header_id|>\n\n" + systemDirective + llamaTurnEnd +
		"<|start_header_id|>user<|end_header_id|>\n\n" + user + llamaTurnEnd +
		"<|start_header_id|>assistant<|end_header_id|>\n\n"
}
