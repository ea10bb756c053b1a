package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "questlog",
		Short:         "A shared quest log for two",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the quest log
  questlog

  # Keep state in SQLite instead of a JSON file
  questlog --store sqlite

  # Print the quest log once and exit
  questlog show
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor || termenv.EnvNoColor() {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Store, "store", envOr(envStore, backendFile), "Storage backend (file|sqlite|memory)")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", envOr(envDir, ""), "Data directory (default: ~/"+dataDirName+")")
	cmd.PersistentFlags().StringVar(&opts.Key, "key", envOr(envKey, defaultKey), "Storage key the quest log is saved under")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", envOr(envLogFile, ""), "Log file (default: <dir>/"+logFileName+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", envOr(envLogLevel, "info"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colors")

	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newResetCmd(opts))

	return cmd
}

// session is the opened store and logger shared by every subcommand.
type session struct {
	store *Store
	log   *slog.Logger
	close func()
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}

	var (
		w       io.Writer = io.Discard
		logFile *os.File
	)
	if path, err := opts.logPath(); err == nil {
		if f, err := openLogFile(path); err == nil {
			w, logFile = f, f
		} else {
			fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		}
	}
	log := newLogger(w, level)

	kv, err := opts.openKV(ctx)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "backend", opts.Store, "key", opts.key())

	store := NewStore(kv, opts.key(), log)
	return &session{
		store: store,
		log:   log,
		close: func() {
			if err := store.Close(); err != nil {
				log.Error("close store", "err", err)
			}
			if logFile != nil {
				_ = logFile.Close()
			}
		},
	}, nil
}

func runTUI(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	app := NewApp(ctx, s.store, s.log)
	p := tea.NewProgram(newModel(app, s.log), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
