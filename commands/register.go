// Package commands provides the prospector CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/prospectio/prospector/config"
	"github.com/prospectio/prospector/export"
	"github.com/prospectio/prospector/source"
	"github.com/prospectio/prospector/source/chunker"
)

// AddCommands attaches all prospector subcommands to the root command.
func AddCommands(root *cobra.Command) {
	root.AddCommand(
		newChunkCommand(),
		newBatchCommand(),
		newFormatsCommand(),
	)
}

// chunkFlags are the knobs shared by the chunk and batch commands. A zero
// value means the flag was not set and the config file value applies.
type chunkFlags struct {
	chunkSize int
	overlap   int
	format    string
	output    string
}

func (f *chunkFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", 0, "Maximum chunk length in characters")
	cmd.Flags().IntVar(&f.overlap, "overlap", -1, "Overlap carried between consecutive chunks")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format (json, jsonl, csv)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output path (default stdout)")
}

// loadConfig loads the layered application config and applies flag overrides.
func loadConfig(flags *chunkFlags) (*config.Config, error) {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return nil, err
	}
	if flags.chunkSize > 0 {
		cfg.Chunking.ChunkSize = flags.chunkSize
	}
	if flags.overlap >= 0 {
		cfg.Chunking.Overlap = flags.overlap
	}
	if flags.format != "" {
		cfg.Export.Format = flags.format
	}
	if flags.output != "" {
		cfg.Export.Output = flags.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newChunker builds the chunking engine from the resolved config.
func newChunker(cfg *config.Config, reporter chunker.Reporter) (*chunker.Chunker, error) {
	return chunker.NewWithLimits(
		chunker.Config{
			ChunkSize: cfg.Chunking.ChunkSize,
			Overlap:   cfg.Chunking.Overlap,
		},
		chunker.Limits{
			MaxDocumentChars:    cfg.Chunking.MaxDocumentChars,
			MaxMergedParagraphs: cfg.Chunking.MaxMergedParagraphs,
			MaxSoloParagraphs:   cfg.Chunking.MaxSoloParagraphs,
		},
		reporter,
	)
}

// writeChunks serializes the chunks to the configured destination.
func writeChunks(cfg *config.Config, chunks []source.Chunk) error {
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	out := cfg.Export.Output
	if out == "" || out == "-" {
		return export.WriteChunks(os.Stdout, format, chunks)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := export.WriteChunks(file, format, chunks); err != nil {
		return err
	}
	return file.Close()
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported export formats",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range export.FormatNames() {
				info, _ := export.GetFormatInfo(export.Format(name))
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-12s %s\n", info.Name, info.Extension, info.Description)
			}
		},
	}
}
