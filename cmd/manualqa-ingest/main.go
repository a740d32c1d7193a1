package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mgtcty/manualqa/internal/config"
	"github.com/mgtcty/manualqa/internal/ingest"
	"github.com/mgtcty/manualqa/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  string
		title    string
		version  string
		released string
		reset    bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.StringVar(&title, "title", "", "Manual title (defaults to the PDF file name)")
	flag.StringVar(&version, "version", "", "Manual version, e.g. \"1st Edition Rev 0\"")
	flag.StringVar(&released, "released", "", "Manual release date")
	flag.BoolVar(&reset, "reset", false, "Delete all stored manuals and sections first")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: manualqa-ingest [--config=config.yaml] [--title=...] [--reset] manual.pdf [more.pdf ...]")
		os.Exit(1)
	}

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

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}
	if reset {
		if err := st.DeleteAll(ctx); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		log.Println("store cleared")
	}

	for _, path := range inputs {
		records, err := ingest.ExtractSections(path)
		if err != nil {
			log.Fatalf("extract %s: %v", path, err)
		}
		if len(records) == 0 {
			log.Printf("%s: no numbered sections found, skipping", path)
			continue
		}
		manualTitle := title
		if manualTitle == "" {
			manualTitle = filepath.Base(path)
		}
		manualID, err := st.InsertManual(ctx, manualTitle, version, released)
		if err != nil {
			log.Fatalf("insert manual %s: %v", path, err)
		}
		if err := st.InsertSections(ctx, manualID, records); err != nil {
			log.Fatalf("insert sections for %s: %v", path, err)
		}
		log.Printf("%s: stored %d sections as manual %d", path, len(records), manualID)
	}
}
