package cmd

import (
	"context"
	"io"

	"github.com/chris-regnier/daycal/internal/ui"
	"github.com/spf13/cobra"
)

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "List the day notes of a month",
	Example: `  daycal month
  daycal month 2024-02
  daycal month 2024-02 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) == 1 {
			month = args[0]
		}
		return monthRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), month)
	},
}

// monthNotesJSON is the --json shape of the month command.
type monthNotesJSON struct {
	Month string            `json:"month"`
	Notes map[string]string `json:"notes"`
}

func monthRun(ctx context.Context, w, errW io.Writer, month string) error {
	g, err := loadGrid(ctx, errW, month, "")
	if err != nil {
		return err
	}

	if jsonOutput {
		notes := make(map[string]string)
		for _, c := range g.Cells {
			if c.HasNote {
				notes[c.Date] = c.NoteID
			}
		}
		return ui.FormatJSON(w, monthNotesJSON{Month: g.Month.Key(), Notes: notes})
	}
	ui.FormatMonthTable(w, g, translator)
	return nil
}

func init() {
	rootCmd.AddCommand(monthCmd)
}
