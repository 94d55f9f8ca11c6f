package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/pagepatch/cmd/pagepatch/commands"
	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/log"
)

// newRootCmd builds the command tree writing to the given streams
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{
		Stdout: stdout,
		Stderr: stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "pagepatch",
		Short: "Literal find and replace patches for static HTML and CSS files",
		Long: `pagepatch applies literal text patches to local HTML and CSS files:
inserting a line before a closing marker, deleting a block, or repairing a
snippet. Every file is read once and written at most once. A missing needle
stops the run before anything is written to that file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd, o))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewApplyCmd(o),
		commands.NewStatusCmd(o),
		commands.NewRecipesCmd(o),
		newVersionCmd(o),
	)

	return rootCmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.Dir, "dir", "C", ".", "base directory for target files")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and stores the loggers in
// the command context
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) context.Context {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
		pterm.EnableDebugMessages()
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Str("command", cmd.Name()).
		Logger()

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, log.New(o.Stdout, zlog))
	o.UserLogger = log.NewUserLoggerWithWriter(ctx, o.Stdout)

	return ctx
}

func newVersionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(o.Stdout, FormatVersion())
			return err
		},
	}
}
