package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"user-directory-bot/internal/domain/preferences"
	"user-directory-bot/internal/infrastructure/persistence"
)

// PrefRecord is the structured output form of a preference entry.
type PrefRecord struct {
	Key   string `json:"key" yaml:"key"`
	Kind  string `json:"kind" yaml:"kind"`
	Value any    `json:"value" yaml:"value"`
}

func toPrefRecord(key string, v preferences.Value) PrefRecord {
	r := PrefRecord{Key: key, Kind: v.Kind().String()}
	switch v.Kind() {
	case preferences.KindString:
		r.Value = v.AsString()
	case preferences.KindInt:
		r.Value = v.AsInt()
	case preferences.KindBool:
		r.Value = v.AsBool()
	case preferences.KindFloat:
		r.Value = v.AsFloat()
	case preferences.KindLong:
		r.Value = v.AsLong()
	case preferences.KindStringSet:
		r.Value = v.AsStringSet()
	}
	return r
}

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write shared preferences",
		Long: `Read and write the shared preferences store.

Kinds: string, int, bool, float, long, string_set. Sets are comma-separated.

Examples:
  userctl prefs set volume int 11
  userctl prefs set tags string_set red,green
  userctl prefs get volume int`,
	}

	var def string
	get := &cobra.Command{
		Use:   "get <key> <kind>",
		Short: "Print a preference, or the default when absent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsGet(opts, cmd, args[0], args[1], def, cmd.Flags().Changed("default"))
		},
	}
	get.Flags().StringVar(&def, "default", "", "value returned when the key is absent")

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <kind> [value...]",
		Short: "Store a preference",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsSet(opts, cmd, args[0], args[1], strings.Join(args[2:], " "))
		},
	})
	cmd.AddCommand(get)
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <key>",
		Short: "Remove a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsRemove(opts, cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every preference of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsClear(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every preference of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsList(opts, cmd)
		},
	})

	return cmd
}

type prefsSession struct {
	db      *sql.DB
	backend *persistence.PreferencesBackend
	store   *preferences.Store
}

func openPrefs(opts *RootOptions) (*prefsSession, error) {
	db, err := persistence.NewPreferencesDB(opts.PrefsDatabase)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open preferences database", err)
	}

	backend := persistence.NewPreferencesBackend(db, opts.Namespace)
	store := preferences.NewStore()
	if err := store.Init(backend); err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to initialize preferences", err)
	}

	return &prefsSession{db: db, backend: backend, store: store}, nil
}

func (s *prefsSession) Close() {
	s.db.Close()
}

func parseKind(name string) (preferences.Kind, error) {
	kind, err := preferences.ParseKind(name)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid kind", err)
	}
	return kind, nil
}

func runPrefsSet(opts *RootOptions, cmd *cobra.Command, key, kindName, text string) error {
	kind, err := parseKind(kindName)
	if err != nil {
		return err
	}
	value, err := preferences.ParseValue(kind, text)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid value", err)
	}

	s, err := openPrefs(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.SetValue(cmd.Context(), key, value); err != nil {
		return WrapExitError(ExitCommandError, "failed to set preference", err)
	}

	return printPref(opts, cmd, key, value)
}

func runPrefsGet(opts *RootOptions, cmd *cobra.Command, key, kindName, defText string, hasDefault bool) error {
	kind, err := parseKind(kindName)
	if err != nil {
		return err
	}

	def, err := preferences.Zero(kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid kind", err)
	}
	if hasDefault {
		if def, err = preferences.ParseValue(kind, defText); err != nil {
			return WrapExitError(ExitFailure, "invalid default", err)
		}
	}

	s, err := openPrefs(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	value, err := s.store.GetValue(cmd.Context(), key, def)
	if errors.Is(err, preferences.ErrTypeMismatch) {
		return WrapExitError(ExitFailure, "type mismatch", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get preference", err)
	}

	return printPref(opts, cmd, key, value)
}

func runPrefsRemove(opts *RootOptions, cmd *cobra.Command, key string) error {
	s, err := openPrefs(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Remove(cmd.Context(), key); err != nil {
		return WrapExitError(ExitCommandError, "failed to remove preference", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
	return nil
}

func runPrefsClear(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openPrefs(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Clear(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, "failed to clear preferences", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", opts.Namespace)
	return nil
}

func runPrefsList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openPrefs(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.records(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list preferences", err)
	}

	return opts.printer(cmd).Print(records, func(w io.Writer) error {
		if len(records) == 0 {
			_, err := fmt.Fprintln(w, "No preferences.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tKIND\tVALUE")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%v\n", r.Key, r.Kind, r.Value)
		}
		return tw.Flush()
	})
}

func (s *prefsSession) records(ctx context.Context) ([]PrefRecord, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]PrefRecord, 0, len(keys))
	for _, key := range keys {
		entry, found, err := s.backend.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		value, err := preferences.Decode(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		records = append(records, toPrefRecord(key, value))
	}
	return records, nil
}

func printPref(opts *RootOptions, cmd *cobra.Command, key string, value preferences.Value) error {
	return opts.printer(cmd).Print(toPrefRecord(key, value), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s = %s (%s)\n", key, value, value.Kind())
		return err
	})
}
