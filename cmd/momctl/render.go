package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/export"
	"github.com/johnquangdev/mom-generator/internal/usecase/minutes"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
)

func renderCmd() *cobra.Command {
	var (
		in     string
		out    string
		format string
		styled bool
		lines  int
		chars  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render generated minutes as pdf, print text or share text",
		Long: `Lays out a generated record and writes it in the chosen format.

Examples:
  momctl render -i minutes.json -f pdf -o minutes.pdf
  momctl render -i minutes.json -f print --styled
  momctl render -i minutes.json -f share`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd, in)
			if err != nil {
				return err
			}
			if record.State == entities.StateEditing {
				return fmt.Errorf("record has not been generated yet; run momctl generate first")
			}

			doc := render.RenderWithOptions(render.InputFromRecord(record, time.Now()), render.Options{
				LinesPerPage: lines,
				CharsPerLine: chars,
			})

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := write(w, format, styled, record, doc); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	defaults := render.DefaultOptions()
	cmd.Flags().StringVarP(&in, "input", "i", "-", "record JSON file")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "print", "output format (pdf, print, share)")
	cmd.Flags().BoolVar(&styled, "styled", false, "bold text with terminal escapes (print only)")
	cmd.Flags().IntVar(&lines, "lines", defaults.LinesPerPage, "lines per page")
	cmd.Flags().IntVar(&chars, "chars", defaults.CharsPerLine, "characters per line")

	return cmd
}

func write(w io.Writer, format string, styled bool, record *entities.MeetingRecord, doc *render.Document) error {
	switch format {
	case "pdf":
		return export.NewPDFWriter(record.Meta.PreparedBy).Write(w, doc)
	case "print":
		return export.NewPrintWriter(styled).Write(w, doc)
	case "share":
		_, err := io.WriteString(w, minutes.ShareText(record))
		return err
	default:
		return fmt.Errorf("unknown format %q (want pdf, print or share)", format)
	}
}
