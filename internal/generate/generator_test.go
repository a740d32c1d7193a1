package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mgtcty/manualqa/internal/domain"
)

type stubCompleter struct {
	raw       string
	err       error
	gotPrompt string
	gotTokens int
	gotStop   string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, maxNewTokens int, stop string) (string, error) {
	s.gotPrompt = prompt
	s.gotTokens = maxNewTokens
	s.gotStop = stop
	return s.raw, s.err
}

func TestExtractBetweenMarkers(t *testing.T) {
	e := NewLlamaExtractor()
	raw := "<|start_header_id|>system<|end_header_id|>\n\nrules<|eot_id|>" +
		"<|start_header_id|>assistant<|end_header_id|>\n\n  Torque to 90 Nm. \n<|eot_id|>"
	if got := e.Extract(raw); got != "Torque to 90 Nm." {
		t.Fatalf("extracted %q", got)
	}
}

func TestExtractNoStartMarker(t *testing.T) {
	e := NewLlamaExtractor()
	if got := e.Extract("  plain answer  "); got != "plain answer" {
		t.Fatalf("extracted %q", got)
	}
}

func TestExtractNoEndMarker(t *testing.T) {
	e := NewLlamaExtractor()
	raw := "ignored<|end_header_id|>\n\ntail answer"
	if got := e.Extract(raw); got != "tail answer" {
		t.Fatalf("extracted %q", got)
	}
}

func TestExtractorForUnknownFamily(t *testing.T) {
	if _, err := ExtractorFor("mistral"); err == nil {
		t.Fatal("expected error for unknown model family")
	}
	if _, err := ExtractorFor("llama3"); err != nil {
		t.Fatalf("llama3 should resolve: %v", err)
	}
}

func TestGenerateInvokesCompleterWithBounds(t *testing.T) {
	comp := &stubCompleter{raw: "<|end_header_id|>\n\nanswer<|eot_id|>"}
	g := New(comp, NewLlamaExtractor(), 0)
	items := []domain.ContextItem{{Position: 1, Passage: "bolt specs", Locator: "5"}}

	got, err := g.Generate(context.Background(), "what torque?", items)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "answer" {
		t.Fatalf("got %q", got)
	}
	if comp.gotTokens != DefaultMaxNewTokens {
		t.Fatalf("expected default token bound, got %d", comp.gotTokens)
	}
	if comp.gotStop != "<|eot_id|>" {
		t.Fatalf("expected eot stop, got %q", comp.gotStop)
	}
	if !strings.Contains(comp.gotPrompt, "[1] content: bolt specs page: 5") {
		t.Fatalf("context missing from prompt: %q", comp.gotPrompt)
	}
	if !strings.Contains(comp.gotPrompt, "Question: what torque?") {
		t.Fatalf("question missing from prompt: %q", comp.gotPrompt)
	}
	if !strings.Contains(comp.gotPrompt, systemDirective) {
		t.Fatal("system directive missing from prompt")
	}
	if !strings.HasSuffix(comp.gotPrompt, "<|start_header_id|>assistant<|end_header_id|>\n\n") {
		t.Fatal("prompt must end with an open assistant header")
	}
}

func TestGeneratePropagatesCompleterFailure(t *testing.T) {
	comp := &stubCompleter{err: errors.New("backend unreachable")}
	g := New(comp, NewLlamaExtractor(), 64)
	_, err := g.Generate(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}
