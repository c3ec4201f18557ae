// corpusload - one-off ingestion of policy documents into the retrieval corpus
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/next-toks/opschat/internal/config"
	"github.com/next-toks/opschat/internal/corpus"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Corpus.Token == "" {
		slog.Error("CORPUS_API_TOKEN is required for ingestion")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := corpus.NewClient(cfg.Corpus.BaseURL, cfg.Corpus.Token, cfg.Corpus.Project, cfg.Corpus.Location)
	loader := corpus.NewLoader(client, cfg.Corpus)

	slog.Info("Starting corpus ingestion",
		"corpus", cfg.Corpus.DisplayName,
		"source_dir", cfg.Corpus.SourceDir,
	)

	summary, err := loader.Run(ctx)
	if err != nil {
		slog.Error("Corpus ingestion failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nResumen de carga:\n")
	fmt.Printf("- Archivos cargados exitosamente: %d\n", summary.Uploaded)
	fmt.Printf("- Archivos con error: %d\n", summary.Failed)
	fmt.Printf("- Total de archivos procesados: %d\n", summary.Total)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
