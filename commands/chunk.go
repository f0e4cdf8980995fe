package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prospectio/prospector/source"
	"github.com/prospectio/prospector/source/parser"
)

func newChunkCommand() *cobra.Command {
	var flags chunkFlags

	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Chunk a single local file",
		Long: `Chunk splits one local file (markdown, plain text, or PDF) into bounded
chunks and writes them in the configured export format.

Examples:
  prospector chunk notes.md
  prospector chunk report.txt --chunk-size 4000 --format csv -o chunks.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			engine, err := newChunker(cfg, &cliReporter{logger: slog.Default()})
			if err != nil {
				return err
			}

			chunks := engine.ChunkBatch([]source.Document{doc})
			if len(chunks) == 0 {
				return fmt.Errorf("no chunkable text in %s", args[0])
			}

			return writeChunks(cfg, chunks)
		},
	}

	flags.register(cmd)
	return cmd
}

// readDocument parses a local file into a document with file provenance.
func readDocument(path string) (source.Document, error) {
	return parser.DefaultRegistry.ParseFile(path)
}
