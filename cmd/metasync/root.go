package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/metasync/cmd/metasync/commands"
	"github.com/walteh/metasync/cmd/metasync/opts"
	"github.com/walteh/metasync/pkg/config"
	"github.com/walteh/metasync/pkg/log"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Flags
	storePath string
	logFile   string
	debug     bool
)

func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var rotator *lumberjack.Logger

	cmd := &cobra.Command{
		Use:   "metasync",
		Short: "Sync Salesforce metadata records with local files",
		Long: `metasync compares records returned by a Salesforce query with the files
in a local directory and lets you pull missing or changed content.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var sink io.Writer
			if logFile != "" {
				rotator = &lumberjack.Logger{
					Filename:   logFile,
					MaxSize:    10,
					MaxBackups: 3,
					MaxAge:     28,
				}
				sink = rotator
			}

			ctx, err := newRootOpts(cmd.Context(), rootOpts, sink)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rotator == nil {
				return nil
			}
			if err := rotator.Close(); err != nil {
				return errors.Errorf("closing log file: %w", err)
			}
			return nil
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(
		commands.NewSyncCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewConfigCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// newRootOpts fills rootOpts with the loggers and the alias store
func newRootOpts(ctx context.Context, rootOpts *opts.RootOpts, logSink io.Writer) (context.Context, error) {
	rootOpts.RunID = uuid.NewString()

	logger := setupLogging(logSink).With().Str("run_id", rootOpts.RunID).Logger()
	ctx = logger.WithContext(ctx)

	rootOpts.UI = log.New(os.Stdout, logger)
	ctx = log.NewContext(ctx, rootOpts.UI)

	path := storePath
	if path == "" {
		def, err := config.DefaultStorePath()
		if err != nil {
			return ctx, errors.Errorf("locating config store: %w", err)
		}
		path = def
	}

	store, err := config.LoadStore(ctx, path)
	if err != nil {
		return ctx, errors.Errorf("loading config store: %w", err)
	}
	rootOpts.Store = store

	logger.Debug().Str("store", path).Int("aliases", len(store.Configs)).Msg("config store loaded")

	return ctx, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&storePath, "store", "", "config store file (.yaml, .json, .toml or .hcl)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file, rotated")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging builds the structured logger. The console writer only shows
// warnings unless --debug is set; the log file always gets info and above.
func setupLogging(logSink io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	consoleLevel := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
		consoleLevel = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: console},
			Level:  consoleLevel,
		},
	}
	if logSink != nil {
		writers = append(writers, logSink)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
}
