package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
	pkgai "github.com/johnquangdev/mom-generator/pkg/ai"
	"github.com/johnquangdev/mom-generator/pkg/config"
)

func generateCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		in      string
		out     string
		online  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Structure the raw notes of a record",
		Long: `Reads a meeting record in the editing state, validates it and fills the
structured discussions and action items.

Without --online the rule engine is used. With --online the generation
backend configured through GROQ_* variables is tried first.

Examples:
  momctl generate -i draft.json -o minutes.json
  momctl generate --online < draft.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd, in)
			if err != nil {
				return err
			}
			if err := record.ValidateForGeneration(); err != nil {
				return fmt.Errorf("record is not ready: %w", err)
			}

			log := logger()
			var backend repositories.GenerationBackend
			if online {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				client := pkgai.NewGroqClient(&cfg.Groq)
				if !client.Enabled() {
					return fmt.Errorf("--online requires GROQ_API_KEY")
				}
				backend = client
			}

			result := structuring.NewGenerator(backend, timeout, log).Generate(context.Background(), entities.GenerationRequest{
				ProjectName: record.Meta.ProjectName,
				Date:        record.Meta.Date,
				Agenda:      record.Meta.Agenda,
				Discussions: record.RawDiscussions,
				ActionItems: record.RawActionItems,
			})
			if result.Notice != "" && online {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Notice)
			}

			record.StructuredDiscussions = result.Discussions
			record.StructuredActionItems = result.ActionItems
			record.State = entities.StateGenerated
			record.UpdatedAt = time.Now()

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(record); err != nil {
				closeFn()
				return fmt.Errorf("failed to write record: %w", err)
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "-", "record JSON file")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	cmd.Flags().BoolVar(&online, "online", false, "use the configured generation backend")
	cmd.Flags().DurationVar(&timeout, "timeout", structuring.DefaultTimeout, "backend timeout")

	return cmd
}
