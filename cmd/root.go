package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chris-regnier/daycal/internal/config"
	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/i18n"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/mcptools"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/chris-regnier/daycal/internal/storage/kv"
	"github.com/chris-regnier/daycal/internal/storage/markdown"
	"github.com/chris-regnier/daycal/internal/storage/sqlite"
	"github.com/chris-regnier/daycal/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	serviceMode    string
	appConfig      *config.Config
	store          storage.Storage
	localService   *daynote.Service // nil when day notes come from an MCP peer
	dayNotes       daynote.Provider
	translator     *i18n.Translator
)

// now is the clock used for "today".
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "daycal",
	Short: "Day notes with a calendar picker",
	Long: `daycal keeps one markdown note per calendar day and lets you jump between
them with a pop-over month calendar.

Run without arguments in a terminal to open today's note; press c for the
calendar.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		if storageBackend != "" {
			appConfig.Storage = storageBackend
		}
		if serviceMode != "" {
			appConfig.Service.Mode = serviceMode
		}

		if err := logs.Initialize(appConfig.LogFile); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}

		translator, err = i18n.New(appConfig.Locale)
		if err != nil {
			return fmt.Errorf("loading locale: %w", err)
		}

		// An MCP server always serves its own store.
		mode := appConfig.Service.Mode
		if cmd.Name() == "mcp-serve" {
			mode = "local"
		}
		return openDayNotes(cmd.Context(), mode)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Non-TTY: print today's note instead
			return dayRun(cmd.Context(), cmd.OutOrStdout(), "", dayOptions{})
		}
		return ui.RunApp(dayNotes, appOptions(""))
	},
}

// openStore initializes the configured storage backend.
func openStore(backend, dataDir string) (storage.Storage, error) {
	switch backend {
	case "markdown":
		s, err := markdown.New(dataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing markdown storage: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.New(dataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return s, nil
	case "diskv":
		s, err := kv.New(dataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing diskv storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// openDayNotes wires the day-note service for mode: a local service over the
// configured store, or a client of an MCP peer started from service.command.
func openDayNotes(ctx context.Context, mode string) error {
	switch mode {
	case "local", "":
		s, err := openStore(appConfig.Storage, appConfig.DataDir)
		if err != nil {
			return err
		}
		store = s
		localService = daynote.New(s, daynote.Options{
			Template:      appConfig.DayNote.Template,
			CreateMissing: appConfig.DayNote.CreateMissing,
		})
		dayNotes = localService
		return nil
	case "mcp":
		parts := strings.Fields(appConfig.Service.Command)
		if len(parts) == 0 {
			return fmt.Errorf("service.mode is mcp but service.command is empty")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := mcptools.NewCommandClient(ctx, appConfig.DayNote.CreateMissing, parts[0], parts[1:]...)
		if err != nil {
			return fmt.Errorf("connecting to day-note service %q: %w", appConfig.Service.Command, err)
		}
		logs.Logger.Printf("using MCP day-note service: %s", appConfig.Service.Command)
		dayNotes = c
		return nil
	default:
		return fmt.Errorf("unknown service mode: %s", mode)
	}
}

// appOptions builds the TUI configuration from the loaded config.
func appOptions(startDate string) ui.AppConfig {
	return ui.AppConfig{
		Editor:       appConfig.Editor,
		MaxWidth:     appConfig.MaxWidth,
		Theme:        ui.ResolveTheme(appConfig.Theme),
		Translator:   translator,
		StartDate:    startDate,
		FetchTimeout: appConfig.Calendar.FetchTimeout,
		Now:          now,
	}
}

// serviceContext bounds a single CLI call to the configured fetch timeout.
func serviceContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	timeout := appConfig.Calendar.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

// closeResources releases the day-note provider and the log file. Cobra
// skips PersistentPostRunE when RunE fails, so Execute calls it too; the
// second call is a no-op.
func closeResources() error {
	defer logs.Close()
	if dayNotes == nil {
		return nil
	}
	err := dayNotes.Close()
	dayNotes, localService = nil, nil
	return err
}

// Execute runs the root command.
func Execute() error {
	defer closeResources()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (markdown|sqlite|diskv)")
	rootCmd.PersistentFlags().StringVar(&serviceMode, "service", "", "day-note service (local|mcp)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
