package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/ui"
	"github.com/spf13/cobra"
)

var gridActive string

var gridCmd = &cobra.Command{
	Use:   "grid [YYYY-MM]",
	Short: "Print a month's calendar grid",
	Long: `Print the calendar grid for a month (default: the active date's month,
else the current month). Days with a note are marked with *, the active
date with [ ] and today with ( ).`,
	Example: `  daycal grid
  daycal grid 2024-02
  daycal grid --active 2024-02-15
  daycal grid 2024-02 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) == 1 {
			month = args[0]
		}
		return gridRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), month, gridActive)
	},
}

// loadGrid renders month through a calendar session, the same path the
// dropdown uses. A failed fetch is reported on errW and yields a grid with
// no notes marked.
func loadGrid(ctx context.Context, errW io.Writer, month, active string) (calendar.Grid, error) {
	s := calendar.NewSession(active, now())
	if err := s.InvalidActive(); err != nil {
		logs.Logger.Printf("ignoring invalid active date %q: %v", active, err)
		fmt.Fprintf(errW, "warning: ignoring invalid active date %q\n", active)
	}

	req := s.Request()
	if month != "" {
		m, err := calendar.ParseMonth(month)
		if err != nil {
			return calendar.Grid{}, fmt.Errorf("invalid month %q (use YYYY-MM)", month)
		}
		req = s.GoTo(m)
	}

	ctx, cancel := serviceContext(ctx)
	defer cancel()
	res := calendar.Render(ctx, dayNotes, req)
	s.Accept(res)
	if res.Err != nil {
		logs.Logger.Printf("grid: %v", res.Err)
		fmt.Fprintf(errW, "warning: %s\n", translator.T(calendar.KeyCannotLoadMonth))
	}
	return s.Grid(), nil
}

func gridRun(ctx context.Context, w, errW io.Writer, month, active string) error {
	g, err := loadGrid(ctx, errW, month, active)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToGridJSON(g, translator))
	}
	ui.FormatGrid(w, g, translator)
	return nil
}

func init() {
	gridCmd.Flags().StringVar(&gridActive, "active", "", "Highlight this YYYY-MM-DD date")
	rootCmd.AddCommand(gridCmd)
}
