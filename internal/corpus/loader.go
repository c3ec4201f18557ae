package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/next-toks/opschat/internal/config"
)

// Summary reports the outcome of one ingestion run.
type Summary struct {
	CorpusName string
	Uploaded   int
	Failed     int
	Total      int
}

// Loader runs the one-off ingestion: find-or-create the corpus, upload
// every JSONL file from the source directory, list what the corpus holds,
// then smoke-test retrieval with one query.
type Loader struct {
	client *Client
	cfg    config.CorpusConfig
}

// NewLoader creates a loader for the configured corpus.
func NewLoader(client *Client, cfg config.CorpusConfig) *Loader {
	return &Loader{client: client, cfg: cfg}
}

// Run executes the full ingestion sequence. Individual upload failures are
// logged and counted but do not stop the run; corpus-level failures do.
func (l *Loader) Run(ctx context.Context) (*Summary, error) {
	corpus, err := l.findOrCreateCorpus(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := l.uploadAll(ctx, corpus.Name)
	if err != nil {
		return nil, err
	}
	summary.CorpusName = corpus.Name

	files, err := l.client.ListFiles(ctx, corpus.Name)
	if err != nil {
		return summary, fmt.Errorf("list corpus files: %w", err)
	}
	slog.Info("corpus contents", "total_files", len(files))
	for _, f := range files {
		fmt.Printf("File: %s - %s\n", f.DisplayName, f.Name)
	}

	if err := l.smokeTest(ctx, corpus.Name); err != nil {
		return summary, err
	}

	return summary, nil
}

func (l *Loader) findOrCreateCorpus(ctx context.Context) (*Corpus, error) {
	existing, err := l.client.ListCorpora(ctx)
	if err != nil {
		return nil, fmt.Errorf("find corpus: %w", err)
	}
	for i := range existing {
		if existing[i].DisplayName == l.cfg.DisplayName {
			slog.Info("found existing corpus", "display_name", l.cfg.DisplayName, "name", existing[i].Name)
			return &existing[i], nil
		}
	}

	created, err := l.client.CreateCorpus(ctx, l.cfg.DisplayName, l.cfg.Description)
	if err != nil {
		return nil, err
	}
	slog.Info("created new corpus", "display_name", l.cfg.DisplayName, "name", created.Name)
	return created, nil
}

func (l *Loader) uploadAll(ctx context.Context, corpusName string) (*Summary, error) {
	entries, err := os.ReadDir(l.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", l.cfg.SourceDir, err)
	}

	summary := &Summary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		summary.Total++

		path := filepath.Join(l.cfg.SourceDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read file", "file", entry.Name(), "error", err)
			summary.Failed++
			continue
		}

		slog.Info("uploading file to corpus", "file", entry.Name())
		_, err = l.client.UploadFile(ctx, corpusName, entry.Name(),
			fmt.Sprintf("Data from %s", entry.Name()), string(content))
		if err != nil {
			slog.Error("failed to upload file", "file", entry.Name(), "error", err)
			summary.Failed++
			continue
		}
		summary.Uploaded++
	}

	slog.Info("upload summary",
		"uploaded", summary.Uploaded,
		"failed", summary.Failed,
		"total", summary.Total,
	)
	return summary, nil
}

func (l *Loader) smokeTest(ctx context.Context, corpusName string) error {
	slog.Info("running retrieval smoke test", "query", l.cfg.SmokeQuery)

	resp, err := l.client.Query(ctx, corpusName, l.cfg.SmokeQuery, 3)
	if err != nil {
		return fmt.Errorf("smoke test query: %w", err)
	}

	fmt.Printf("\nConsulta de prueba: %s\n\nRespuesta:\n%s\n", l.cfg.SmokeQuery, resp.Answer)
	if len(resp.RelevantChunks) > 0 {
		fmt.Println("\nDocumentos relevantes encontrados:")
		for _, chunk := range resp.RelevantChunks {
			text := chunk.ChunkText
			if len(text) > 200 {
				text = text[:200] + "..."
			}
			fmt.Printf("- Documento: %s\n  Fragmento: %s\n\n", chunk.DocumentDisplayName, text)
		}
	}
	return nil
}
