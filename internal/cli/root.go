package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"user-directory-bot/internal/domain/preferences"
	"user-directory-bot/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database      string
	PrefsDatabase string
	Namespace     string
	Format        string // "text" | "json" | "yaml"
	Verbose       bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command of userctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "userctl",
		Short: "Manage the user directory and its preferences",
		Long:  "Local administration of the user directory database and the shared preferences store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "users.db", "path to the user SQLite database")
	cmd.PersistentFlags().StringVar(&opts.PrefsDatabase, "prefs-db", "preferences.db", "path to the preferences SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Namespace, "namespace", preferences.DefaultNamespace, "preferences namespace")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))

	return cmd
}

func (o *RootOptions) logger(w io.Writer) *logger.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return logger.NewWithWriter(w, int(level))
}

func (o *RootOptions) printer(cmd *cobra.Command) *Printer {
	return &Printer{Format: o.Format, Writer: cmd.OutOrStdout()}
}
