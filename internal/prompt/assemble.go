// Package prompt holds the deterministic prompt-context formatting. It is
// pure string work, isolated so it can be tested without any model.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mgtcty/manualqa/internal/domain"
)

// Assemble pairs each passage with its locator into a 1-indexed context,
// preserving the input (reranked) order.
func Assemble(passages, locators []string) ([]domain.ContextItem, error) {
	if len(passages) != len(locators) {
		return nil, errors.New("passages and locators length mismatch")
	}
	items := make([]domain.ContextItem, len(passages))
	for i := range passages {
		items[i] = domain.ContextItem{
			Position: i + 1,
			Passage:  passages[i],
			Locator:  locators[i],
		}
	}
	return items, nil
}

// Render serializes the context the way the generation prompt expects it,
// one line per item.
func Render(items []domain.ContextItem) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("[%d] content: %s page: %s", it.Position, it.Passage, it.Locator)
	}
	return strings.Join(lines, "\n")
}
