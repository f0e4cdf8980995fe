package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/prospectio/prospector/config"
	webingester "github.com/prospectio/prospector/processor/web-ingester"
	"github.com/prospectio/prospector/source"
	"github.com/prospectio/prospector/source/chunker"
	"github.com/prospectio/prospector/source/watch"
)

func newBatchCommand() *cobra.Command {
	var (
		flags     chunkFlags
		patterns  []string
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "batch <dir|urls.csv>",
		Short: "Chunk a directory of files or a CSV of URLs as one batch",
		Long: `Batch aggregates multiple documents into chunk records with per-chunk
source attribution.

Given a directory, every matching file becomes one document. Given a CSV
file with columns url[,title[,query]], each URL is fetched and its readable
content becomes one document.

Examples:
  prospector batch ./docs --pattern '**/*.md' --format jsonl -o chunks.jsonl
  prospector batch sources.csv --format csv -o chunks.csv
  prospector batch ./docs --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}
			if len(patterns) > 0 {
				cfg.Watch.Patterns = patterns
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, err := newChunker(cfg, &cliReporter{logger: slog.Default()})
			if err != nil {
				return err
			}

			target := args[0]
			info, err := os.Stat(target)
			if err != nil {
				return fmt.Errorf("stat %s: %w", target, err)
			}

			if !info.IsDir() {
				if watchMode {
					return fmt.Errorf("--watch requires a directory, not %s", target)
				}
				return runURLBatch(ctx, cfg, engine, target)
			}

			if err := runDirectoryBatch(cfg, engine, target); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			return watchDirectory(ctx, cfg, engine, target)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "Doublestar globs selecting files (default from config)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Keep running and rechunk on file changes")

	return cmd
}

// runDirectoryBatch chunks every matching file under dir as one batch.
func runDirectoryBatch(cfg *config.Config, engine *chunker.Chunker, dir string) error {
	docs, err := collectDocuments(dir, cfg.Watch.Patterns)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no files matching %v under %s", cfg.Watch.Patterns, dir)
	}

	chunks := engine.ChunkBatch(docs)
	slog.Info("Batch chunked", "documents", len(docs), "chunks", len(chunks))
	return writeChunks(cfg, chunks)
}

// collectDocuments reads every file under dir whose path relative to dir
// matches one of the doublestar patterns. Hidden directories and common
// dependency directories are skipped. Files are loaded in path order so the
// batch is deterministic.
func collectDocuments(dir string, patterns []string) ([]source.Document, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]source.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := readDocument(path)
		if err != nil {
			slog.Warn("Skipping file", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// runURLBatch fetches every URL listed in the CSV and chunks the resulting
// documents as one batch. Fetches run concurrently up to the configured
// limit; a failed URL is logged and skipped, not fatal.
func runURLBatch(ctx context.Context, cfg *config.Config, engine *chunker.Chunker, csvPath string) error {
	requests, err := readURLList(csvPath)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("no URLs in %s", csvPath)
	}

	fetcher := webingester.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxBodyBytes)
	handler := webingester.NewHandler(fetcher, slog.Default())

	docs := make([]source.Document, len(requests))
	var mu sync.Mutex
	fetched := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Fetch.MaxConcurrent)
	for i, req := range requests {
		g.Go(func() error {
			payload, err := handler.IngestWebSource(gctx, req)
			if err != nil {
				slog.Warn("Skipping URL", "url", req.URL, "error", err)
				return nil
			}
			mu.Lock()
			docs[i] = payload.Document
			fetched++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if fetched == 0 {
		return fmt.Errorf("no URL could be fetched")
	}

	// Drop slots left empty by failed fetches, preserving list order.
	batch := make([]source.Document, 0, fetched)
	for _, doc := range docs {
		if !doc.Empty() {
			batch = append(batch, doc)
		}
	}

	chunks := engine.ChunkBatch(batch)
	slog.Info("Batch chunked", "urls", len(requests), "fetched", fetched, "chunks", len(chunks))
	return writeChunks(cfg, chunks)
}

// readURLList parses a CSV with columns url[,title[,query]]. A header row
// naming the first column "url" is skipped. The title column is advisory;
// the fetched page title wins when extraction finds one.
func readURLList(path string) ([]webingester.FetchRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var requests []webingester.FetchRequest
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		url := strings.TrimSpace(record[0])
		if url == "" || (i == 0 && strings.EqualFold(url, "url")) {
			continue
		}
		req := webingester.FetchRequest{URL: url}
		if len(record) > 1 {
			req.Title = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			req.Query = strings.TrimSpace(record[2])
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// watchDirectory reruns the directory batch whenever matching files change.
func watchDirectory(ctx context.Context, cfg *config.Config, engine *chunker.Chunker, dir string) error {
	watcher, err := watch.New(dir, watch.Options{
		Debounce: cfg.Watch.Debounce,
		Patterns: cfg.Watch.Patterns,
	}, slog.Default())
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	slog.Info("Watching for changes", "dir", dir, "patterns", cfg.Watch.Patterns)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			slog.Info("Change detected", "path", event.Path, "op", event.Operation)
			if err := runDirectoryBatch(cfg, engine, dir); err != nil {
				slog.Error("Rechunk failed", "error", err)
			}
		}
	}
}

// cliReporter surfaces chunking policy events as warnings on the CLI.
type cliReporter struct {
	logger *slog.Logger
}

func (r *cliReporter) DocumentTruncated(meta source.Metadata, originalChars, keptChars int) {
	r.logger.Warn("Document truncated before chunking",
		"url", meta.URL, "original_chars", originalChars, "kept_chars", keptChars)
}

func (r *cliReporter) ParagraphsCapped(meta source.Metadata, totalParagraphs, keptParagraphs int) {
	r.logger.Warn("Document paragraphs capped",
		"url", meta.URL, "total_paragraphs", totalParagraphs, "kept_paragraphs", keptParagraphs)
}
