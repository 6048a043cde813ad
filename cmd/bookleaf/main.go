package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/bookleaf/internal/app"
	"github.com/marcus/bookleaf/internal/bookleaf"
	"github.com/marcus/bookleaf/internal/config"
	"github.com/marcus/bookleaf/internal/keymap"
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
	"github.com/marcus/bookleaf/internal/version"
)

// Version is set at build time via ldflags
var Version = ""

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	baseDir    string
	logFile    string
	debug      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bookleaf",
		Short: "Scratch notes kept in a single folder",
		Long: `BookLeaf keeps quick scratch files in one folder and lets you list,
create, search and delete them from the terminal.

Without a subcommand it opens the file list.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, bookleaf.CommandList)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file")
	pf.StringVar(&opts.baseDir, "base-dir", "", "directory the BookLeaf folder lives under")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	for _, c := range []struct {
		name  string
		short string
	}{
		{bookleaf.CommandNew, "Create a new scratch file"},
		{bookleaf.CommandSearch, "Search file contents"},
		{bookleaf.CommandDelete, "Delete a file"},
		{bookleaf.CommandOpenFolder, "Open the storage folder in the file browser"},
	} {
		root.AddCommand(newTUICommand(opts, c.name, c.short))
	}
	root.AddCommand(newPathCommand(opts))
	root.AddCommand(newVersionCommand())
	root.AddCommand(newConfigCommand(opts))

	return root
}

// newTUICommand opens the TUI and runs name right away.
func newTUICommand(opts *rootOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, name)
		},
	}
}

func newPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the storage folder, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			dir, err := storage.NewLocator(cfg.BaseDir).Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookleaf version %s\n", version.Effective(Version))
		},
	}
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			if path == "" {
				return errors.New("cannot determine config path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTo(path, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.baseDir != "" {
		cfg.BaseDir = config.ExpandPath(opts.baseDir)
	}
	return cfg, nil
}

// newLogger returns the logger for a TUI session. The alternate screen owns
// the terminal, so logs go to the log file, to stderr only with --debug, and
// are discarded otherwise.
func newLogger(opts *rootOptions, stderr io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() error { return nil }
	switch {
	case opts.logFile != "":
		f, err := os.OpenFile(config.ExpandPath(opts.logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	case opts.debug:
		w = stderr
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func runTUI(cmd *cobra.Command, opts *rootOptions, initial string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	km.ApplyOverrides(cfg.Keymap.Overrides)

	loc := storage.NewLocator(cfg.BaseDir)
	env := bookleaf.NewEnv(loc, bookleaf.SettingsFromConfig(cfg))
	env.Logger = logger

	registry := plugin.NewRegistry()
	if err := bookleaf.Register(registry, env); err != nil {
		return err
	}

	model := app.New(app.Options{
		Config:         cfg,
		Registry:       registry,
		Keymap:         km,
		Locator:        loc,
		Logger:         logger,
		Version:        version.Effective(Version),
		InitialCommand: initial,
	})
	defer model.Close()

	logger.Info("starting", "base_dir", cfg.BaseDir, "command", initial)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
