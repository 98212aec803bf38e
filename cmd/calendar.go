package cmd

import (
	"os"

	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var calendarDate string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Open the day-note viewer with the calendar showing",
	Long: `Open the note for --date (default today) with the calendar dropdown
already open. The calendar starts on that note's month, or on the current
month when the date has no note. Pick a day with enter or a click to open
its note.

Without a terminal the month grid is printed instead.`,
	Example: `  daycal calendar
  daycal calendar --date 2023-12-25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := calendarDate
		if date == "" {
			date = day.FormatISO(now())
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			month := ""
			if t, err := day.ParseISO(date); err == nil {
				month = day.MonthKey(t)
			}
			return gridRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), month, date)
		}
		opts := appOptions(date)
		opts.OpenCalendar = true
		return ui.RunApp(dayNotes, opts)
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "YYYY-MM-DD date to open on")
	rootCmd.AddCommand(calendarCmd)
}
