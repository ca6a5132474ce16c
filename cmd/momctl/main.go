// Command momctl structures and renders meeting minutes from JSON files
// without a running server, and prepares a development database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "momctl",
		Short:         "momctl - offline tools for meeting minutes",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	logger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	rootCmd.AddCommand(generateCmd(logger))
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	return rootCmd
}

// readRecord loads a meeting record from path, "-" meaning stdin
func readRecord(cmd *cobra.Command, path string) (*entities.MeetingRecord, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	record := entities.NewMeetingRecord()
	if err := json.NewDecoder(r).Decode(record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

// output opens path for writing, "-" meaning stdout
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
