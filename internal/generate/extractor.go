package generate

import (
	"fmt"
	"strings"
)

// Extractor pulls the assistant's final reply out of raw model output.
// Completion backends echo the whole rendered conversation, control tokens
// included, so the clean answer has to be cut out between turn markers. The
// marker strings are a format contract with the model family; swapping the
// model means swapping the extractor, not the orchestration.
type Extractor interface {
	Extract(raw string) string
}

// markerExtractor finds the last response-start marker, then the first
// turn-end marker after it. Missing start falls back to the whole trimmed
// output; missing end falls back to the trimmed tail after the start.
type markerExtractor struct {
	start string
	end   string
}

func (e markerExtractor) Extract(raw string) string {
	i := strings.LastIndex(raw, e.start)
	if i < 0 {
		return strings.TrimSpace(raw)
	}
	i += len(e.start)
	j := strings.Index(raw[i:], e.end)
	if j < 0 {
		return strings.TrimSpace(raw[i:])
	}
	return strings.TrimSpace(raw[i : i+j])
}

// Llama-3 turn delimiters.
const (
	llamaResponseStart = "<|end_header_id|>"
	llamaTurnEnd       = "<|eot_id|>"
)

// NewLlamaExtractor returns the extractor for Llama-3 style chat output.
func NewLlamaExtractor() Extractor {
	return markerExtractor{start: llamaResponseStart, end: llamaTurnEnd}
}

// ExtractorFor selects the extraction strategy for a model family.
func ExtractorFor(family string) (Extractor, error) {
	switch family {
	case "llama3", "llama", "":
		return NewLlamaExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown model family %q", family)
	}
}
