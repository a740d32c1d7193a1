package prompt

import (
	"reflect"
	"testing"
)

func TestAssemblePreservesOrderAndPositions(t *testing.T) {
	passages := []string{"bolt torque table", "weld symbols", "load ratings"}
	locators := []string{"12", "34", "7"}
	items, err := Assemble(passages, locators)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(items) != len(passages) {
		t.Fatalf("expected %d items, got %d", len(passages), len(items))
	}
	for i, it := range items {
		if it.Position != i+1 {
			t.Fatalf("item %d has position %d", i, it.Position)
		}
		if it.Passage != passages[i] || it.Locator != locators[i] {
			t.Fatalf("item %d lost its passage/locator pairing: %+v", i, it)
		}
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	passages := []string{"a", "b"}
	locators := []string{"1", "2"}
	first, err := Assemble(passages, locators)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	second, err := Assemble(passages, locators)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input must assemble identically")
	}
}

func TestAssembleLengthMismatch(t *testing.T) {
	if _, err := Assemble([]string{"a"}, []string{"1", "2"}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRenderFormat(t *testing.T) {
	items, err := Assemble([]string{"keep bolts torqued", "check welds"}, []string{"3", "9"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got := Render(items)
	want := "[1] content: keep bolts torqued page: 3\n[2] content: check welds page: 9"
	if got != want {
		t.Fatalf("Render mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
