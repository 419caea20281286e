package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/cli/backups"
	"github.com/david-saint/ductiva/internal/cli/habits"
	"github.com/david-saint/ductiva/internal/cli/settings"
	"github.com/david-saint/ductiva/internal/cli/system"
	"github.com/david-saint/ductiva/internal/cli/widgetcmd"
	"github.com/david-saint/ductiva/internal/constants"
	ductivaerrors "github.com/david-saint/ductiva/internal/errors"
	"github.com/david-saint/ductiva/internal/logger"
	"github.com/david-saint/ductiva/internal/notifier"
	"github.com/david-saint/ductiva/internal/storage/postgres"
)

type CLI struct {
	Version  kong.VersionFlag `help:"Print the version and exit."`
	Config   string           `help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or the OS keyring instead." type:"string" default:"${default_config}" env:"DUCTIVA_CONFIG"`
	LogDebug bool             `name:"debug" help:"Enable debug logging to stderr (or set DUCTIVA_DEBUG)."`

	Init     system.InitCmd       `cmd:"" help:"Initialize ductiva storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"withargs"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and completions."`
	Widget   widgetcmd.WidgetCmd  `cmd:"" help:"Render widget views."`
	Open     widgetcmd.OpenCmd    `cmd:"" help:"Open a ductiva:// habit link."`
	Serve    widgetcmd.ServeCmd   `cmd:"" help:"Serve read-only habit snapshots over HTTP."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage calendar settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug    system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

// Commands that open the store themselves or never touch it.
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		ductivaerrors.Fatal(err)
	}
}

func run(args []string) error {
	var app CLI
	parser, err := kong.New(&app,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker built around streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"serve_addr":     constants.DefaultServeAddr,
		},
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Debug:     app.LogDebug || logger.DebugFromEnv(),
		ConfigDir: configDir(app.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(app.Config)
	if err != nil {
		return err
	}
	defer store.Close()

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !skipLoad[command[0]] {
		if err := store.Load(); err != nil {
			return err
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	return ctx.Run(&cli.Context{
		Store:    store,
		Notifier: notifier.New(),
		Now:      time.Now,
	})
}

// configDir is where logs go: next to the SQLite file, or the user config
// directory for PostgreSQL.
func configDir(config string) string {
	if postgres.IsConnString(config) {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, constants.AppName)
		}
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return filepath.Dir(kong.ExpandPath(config))
}
