// Package main provides the prospector binary entry point.
// Prospector turns web pages and local files into size-bounded chunk
// records with source attribution, either as a one-shot CLI or as a
// NATS-backed streaming pipeline.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/prospectio/prospector/commands"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "prospector"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Document chunking for size-constrained consumers",
		Long: `Prospector splits documents into bounded chunks that preserve paragraph
boundaries and source provenance.

It provides:
- chunk: split one local file into chunks
- batch: aggregate a directory or a CSV of URLs into chunk records
- serve: run the streaming pipeline (web-ingester and batch-chunker over NATS)

Chunk records carry the metadata of every document that contributed text.`,
	}

	commands.AddCommands(cmd)
	cmd.AddCommand(serveCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
