package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Embedder.Dimension != 384 {
		t.Fatalf("default dimension = %d", cfg.Embedder.Dimension)
	}
	if cfg.Pipeline.TopKRetrieve != 20 || cfg.Pipeline.TopKRerank != 4 {
		t.Fatalf("default pipeline depths = %+v", cfg.Pipeline)
	}
	if cfg.Generator.ModelFamily != "llama3" {
		t.Fatalf("default model family = %q", cfg.Generator.ModelFamily)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("embedder:\n  model: custom-model\npipeline:\n  top_k_rerank: 6\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Embedder.Model != "custom-model" {
		t.Fatalf("model = %q", cfg.Embedder.Model)
	}
	if cfg.Embedder.Dimension != 384 {
		t.Fatalf("dimension default not applied: %d", cfg.Embedder.Dimension)
	}
	if cfg.Pipeline.TopKRerank != 6 {
		t.Fatalf("top_k_rerank = %d", cfg.Pipeline.TopKRerank)
	}
	if cfg.Pipeline.TopKRetrieve != 20 {
		t.Fatalf("top_k_retrieve default not applied: %d", cfg.Pipeline.TopKRetrieve)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Reranker.URL = "http://reranker:9000"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Reranker.URL != "http://reranker:9000" {
		t.Fatalf("round trip lost reranker URL: %q", loaded.Reranker.URL)
	}
}
