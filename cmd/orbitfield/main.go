package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitfield/internal/config"
	"github.com/san-kum/orbitfield/internal/frame"
	"github.com/san-kum/orbitfield/internal/gui"
	"github.com/san-kum/orbitfield/internal/logging"
	"github.com/san-kum/orbitfield/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	frameRate  int
	verbose    bool
	logFile    string
	watch      bool

	logger   *zap.Logger
	logLevel = zap.NewAtomicLevel()
)

// main registers the commands and flags and runs the terminal host when no
// subcommand is given. It exits with status 1 if a command returns an error.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orbitfield",
		Short: "rotating 3-D particle field with proximity links",
		Long: `orbitfield renders a field of drifting particles that rotates slowly about
the vertical axis, links nearby particles with faint lines and pushes
particles away from the pointer.

Run without arguments to open the field in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the terminal UI owns stdout and stderr, so it only logs to a file
			if cmd == cmd.Root() && logFile == "" {
				logger, logLevel = zap.NewNop(), zap.NewAtomicLevel()
				return nil
			}
			var err error
			logger, logLevel, err = logging.New(verbose, logFile)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTerminal,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "default", "preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&frameRate, "fps", 0, "frame rate (overrides the config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.BoolVar(&watch, "watch", false, "reload --config when it changes")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the field in a native window",
		RunE:  runGUI,
	}
	guiCmd.Flags().Int32("width", 1280, "window width")
	guiCmd.Flags().Int32("height", 720, "window height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	rootCmd.AddCommand(guiCmd, newSnapshotCmd(), newRecordCmd(), newBenchCmd(), presetsCmd, configCmd)
	return rootCmd
}

// loadConfig applies the preset, then the config file, then flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("fps") {
		cfg.Frame.FPS = frameRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyLogLevel(cfg)
	return cfg, nil
}

// applyLogLevel follows log_level from the config unless --verbose asked for
// debug output.
func applyLogLevel(cfg *config.Config) {
	if verbose {
		return
	}
	if err := logging.SetLevel(logLevel, cfg.LogLevel); err != nil {
		logger.Warn("log level ignored", zap.Error(err))
	}
}

// watchConfig runs the config watcher in g when --watch is set, handing every
// successfully reloaded config to apply.
func watchConfig(ctx context.Context, g *errgroup.Group, cmd *cobra.Command, apply func(*config.Config, frame.Tuning)) error {
	if !watch {
		return nil
	}
	if configFile == "" {
		return fmt.Errorf("--watch needs --config")
	}
	base := config.GetPreset(preset)
	g.Go(func() error {
		return config.WatchOver(ctx, configFile, base, func(cfg *config.Config, err error) {
			if err == nil && cmd.Flags().Changed("fps") {
				cfg.Frame.FPS = frameRate
			}
			var tuning frame.Tuning
			if err == nil {
				tuning, err = cfg.Tuning()
			}
			if err != nil {
				logger.Warn("config reload rejected", zap.Error(err))
				return
			}
			applyLogLevel(cfg)
			logger.Info("config reloaded", zap.String("path", configFile), zap.Stringer("level", logLevel.Level()))
			apply(cfg, tuning)
		})
	})
	return nil
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}

	m, err := viz.NewModel(viz.Options{
		Tuning: tuning,
		Seed:   cfg.Seed,
		Theme:  cfg.Theme,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	err = watchConfig(ctx, g, cmd, func(cfg *config.Config, t frame.Tuning) {
		p.Send(viz.ConfigMsg{Tuning: t, Theme: cfg.Theme})
	})
	if err != nil {
		return err
	}

	_, err = p.Run()
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err == nil {
		err = m.Err()
	}
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt32("width")
	height, _ := cmd.Flags().GetInt32("height")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	reload := make(chan frame.Tuning, 1)
	err = watchConfig(ctx, g, cmd, func(_ *config.Config, t frame.Tuning) {
		select {
		case reload <- t:
		default:
		}
	})
	if err != nil {
		return err
	}

	app, err := gui.Run(ctx, gui.Options{
		Tuning: tuning,
		Seed:   cfg.Seed,
		Width:  width,
		Height: height,
		Logger: logger,
		Reload: reload,
	})
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err == nil {
		err = app.Err()
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tSPEED\tLINK\tFPS\tTHEME")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d/%d\t%.2f\t%.0f\t%d\t%s\n",
			name, cfg.Field.SmallCount, cfg.Field.LargeCount, cfg.Field.Speed,
			cfg.Links.Threshold, cfg.Frame.FPS, cfg.Theme)
	}
	return w.Flush()
}
