package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/mgtcty/manualqa/internal/config"
	"github.com/mgtcty/manualqa/internal/domain"
	"github.com/mgtcty/manualqa/internal/embedding/openai"
	"github.com/mgtcty/manualqa/internal/generate"
	"github.com/mgtcty/manualqa/internal/index"
	"github.com/mgtcty/manualqa/internal/llm/llamacpp"
	"github.com/mgtcty/manualqa/internal/rerank"
	"github.com/mgtcty/manualqa/internal/scoring/hf"
	"github.com/mgtcty/manualqa/internal/service"
	"github.com/mgtcty/manualqa/internal/store"
	"github.com/mgtcty/manualqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/manualqa/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	dsn := os.Getenv(cfg.Store.DSNEnv)
	if dsn == "" {
		log.Fatalf("missing Postgres DSN in env %s", cfg.Store.DSNEnv)
	}
	st, err := store.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.DB.Close()

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	scorer, err := hf.NewClient(hf.Config{
		URL:     cfg.Reranker.URL,
		Timeout: time.Duration(cfg.Reranker.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("reranker init failed: %v", err)
	}

	completer, err := llamacpp.NewClient(llamacpp.Config{
		URL:     cfg.Generator.URL,
		Timeout: time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}
	extractor, err := generate.ExtractorFor(cfg.Generator.ModelFamily)
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	orch := service.New(
		index.New(embedder),
		rerank.New(scorer),
		generate.New(completer, extractor, cfg.Generator.MaxNewTokens),
		st,
		cfg.Pipeline.TopKRetrieve,
		cfg.Pipeline.TopKRerank,
	)

	// Populate the index once at session start; queries then only read it.
	if err := orch.Reindex(ctx); err != nil && !errors.Is(err, domain.ErrEmptyCorpus) {
		log.Fatalf("indexing failed: %v", err)
	}

	manuals, err := st.Manuals(ctx)
	if err != nil {
		log.Fatalf("listing manuals failed: %v", err)
	}

	m := tui.New(orch, manuals)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
