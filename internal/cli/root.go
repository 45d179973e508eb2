// Package cli implements the tasks command line client.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/taskapi"
	"taskboard/pkg/board"
	"taskboard/pkg/task"
)

// errReported means the failure was already shown to the user as a notice.
var errReported = errors.New("failed")

// App holds what the commands run against. Zero fields are filled from the
// configuration when a command starts.
type App struct {
	Service task.Service
	Logger  *log.Logger
	In      io.Reader
	Out     io.Writer

	configPath string
	apiURL     string
	locale     string
	logLevel   string

	catalog  *board.Catalog
	sync     *board.Synchronizer
	dispatch *board.Dispatcher
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the task list",
		Long: `tasks lists, adds, edits and removes tasks on the task service.

Every command fetches the whole list again after it ran, so the table printed
is always what the service holds.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to taskboard.toml")
	root.PersistentFlags().StringVar(&app.apiURL, "api-url", "", "task collection URL (overrides api_url)")
	root.PersistentFlags().StringVar(&app.locale, "locale", "", "display locale, e.g. pt-BR or en-US")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newListCmd(app))
	root.AddCommand(newAddCmd(app))
	root.AddCommand(newEditCmd(app))
	root.AddCommand(newRmCmd(app))
	return root
}

// Execute runs the tasks command with os.Args.
func Execute(version string) error {
	root := NewRootCmd(&App{})
	root.Version = version
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func (app *App) setup(cmd *cobra.Command) error {
	if app.In == nil {
		app.In = cmd.InOrStdin()
	}
	if app.Out == nil {
		app.Out = cmd.OutOrStdout()
	}

	cfgLocale := config.DefaultLocale
	if app.Service == nil {
		cfg, err := config.Load(app.configPath)
		if err != nil {
			return err
		}
		if app.apiURL != "" {
			cfg.APIURL = app.apiURL
		}
		if app.logLevel != "" {
			cfg.LogLevel = app.logLevel
		}
		cfgLocale = cfg.Locale

		if app.Logger == nil {
			app.Logger, err = logging.New(logging.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Prefix: "tasks",
				Output: os.Stderr,
			})
			if err != nil {
				return err
			}
		}
		client, err := taskapi.New(cfg.APIURL,
			taskapi.WithTimeout(cfg.Timeout.Duration),
			taskapi.WithLogger(app.Logger),
		)
		if err != nil {
			return err
		}
		app.Service = client
	}

	locale := board.MatchLocale(app.locale, cfgLocale)
	format := board.NewFormatter(locale)
	app.catalog = format.Catalog()
	notify := board.NotifierFunc(app.printNotice)
	app.sync = board.NewSynchronizer(app.Service, format, app.catalog, notify, app.Logger)
	app.dispatch = board.NewDispatcher(app.Service, app.sync, app.catalog, notify, app.Logger)
	return nil
}
