package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/editor"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	dayEdit        bool
	dayIDOnly      bool
	dayContentOnly bool
	dayNoCreate    bool
)

type dayOptions struct {
	noCreate    bool
	idOnly      bool
	contentOnly bool
}

// confirmCreate asks whether a missing day note should be created. Without a
// terminal it declines.
var confirmCreate = func(date string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}
	return ui.Confirm(fmt.Sprintf("No day note for %s. Create it?", date), false, ui.ResolveTheme(appConfig.Theme))
}

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show or edit the day note for a date",
	Long: `Show or edit the day note for a date (default today).

A missing note is created when day_note.create_missing is set. Otherwise
you are asked first, unless --no-create is given.`,
	Example: `  daycal day
  daycal day 2024-02-15
  daycal day 2024-02-15 --edit
  daycal day --id-only
  daycal day --content-only
  daycal day --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := ""
		if len(args) == 1 {
			date = args[0]
		}
		opts := dayOptions{noCreate: dayNoCreate, idOnly: dayIDOnly, contentOnly: dayContentOnly}
		if dayEdit {
			return dayEditRun(cmd.Context(), cmd.OutOrStdout(), date, opts)
		}
		return dayRun(cmd.Context(), cmd.OutOrStdout(), date, opts)
	},
}

// resolveDay returns the day note for date, creating it per config or on
// confirmation.
func resolveDay(ctx context.Context, date string, opts dayOptions) (*note.Note, bool, error) {
	if date == "" {
		date = day.FormatISO(now())
	}
	if err := day.ValidateISO(date); err != nil {
		return nil, false, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", date)
	}

	create := appConfig.DayNote.CreateMissing && !opts.noCreate
	n, created, err := lookupDay(ctx, date, create)
	if errors.Is(err, daynote.ErrNoDayNote) && !opts.noCreate {
		ok, cerr := confirmCreate(date)
		if cerr != nil {
			return nil, false, cerr
		}
		if ok {
			n, created, err = lookupDay(ctx, date, true)
		}
	}
	if errors.Is(err, daynote.ErrNoDayNote) {
		return nil, false, fmt.Errorf("%s: %s", translator.T(calendar.KeyCannotFindDayNote), date)
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting day note for %s: %w", date, err)
	}
	return n, created, nil
}

func lookupDay(ctx context.Context, date string, create bool) (*note.Note, bool, error) {
	ctx, cancel := serviceContext(ctx)
	defer cancel()
	return dayNotes.GetDayNote(ctx, date, create)
}

func dayRun(ctx context.Context, w io.Writer, date string, opts dayOptions) error {
	n, created, err := resolveDay(ctx, date, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return ui.FormatJSON(w, ui.ToNoteJSON(n, created))
	}
	if opts.idOnly {
		fmt.Fprintln(w, n.ID)
		return nil
	}
	if opts.contentOnly {
		fmt.Fprintln(w, n.Content)
		return nil
	}

	var buf bytes.Buffer
	if created {
		ui.FormatNoteCreated(&buf, n)
	}
	ui.FormatNoteFull(&buf, n, appConfig.Theme.MarkdownStyle)
	return ui.OutputOrPage(w, buf.String(), false, ui.PagerOptions{
		Title:    n.Date,
		Theme:    ui.ResolveTheme(appConfig.Theme),
		MaxWidth: appConfig.MaxWidth,
	})
}

// editNote runs the editor on content; tests replace it.
var editNote = func(content string) (string, bool, error) {
	return editor.Edit(editor.ResolveEditor(appConfig.Editor), content)
}

func dayEditRun(ctx context.Context, w io.Writer, date string, opts dayOptions) error {
	n, _, err := resolveDay(ctx, date, opts)
	if err != nil {
		return err
	}

	content, changed, err := editNote(n.Content)
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if !changed {
		if jsonOutput {
			return ui.FormatJSON(w, ui.ToNoteJSON(n, false))
		}
		ui.FormatNoChanges(w, n.ID)
		return nil
	}

	uctx, cancel := serviceContext(ctx)
	defer cancel()
	updated, err := dayNotes.UpdateNote(uctx, n.ID, content)
	if err != nil {
		return fmt.Errorf("updating note %s: %w", n.ID, err)
	}
	logs.Logger.Printf("updated day note %s for %s", updated.ID, updated.Date)

	if jsonOutput {
		return ui.FormatJSON(w, ui.ToNoteJSON(updated, false))
	}
	ui.FormatNoteUpdated(w, updated)
	return nil
}

func init() {
	dayCmd.Flags().BoolVar(&dayEdit, "edit", false, "Open the day note in the editor")
	dayCmd.Flags().BoolVar(&dayIDOnly, "id-only", false, "Print just the note ID")
	dayCmd.Flags().BoolVar(&dayContentOnly, "content-only", false, "Print just the content")
	dayCmd.Flags().BoolVar(&dayNoCreate, "no-create", false, "Never create a missing day note")
	rootCmd.AddCommand(dayCmd)
}
