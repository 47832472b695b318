package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"user-directory-bot/internal/application/viewmodel"
	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/infrastructure/filesystem"
	"user-directory-bot/internal/infrastructure/persistence"
)

// readTimeout bounds how long a command waits for the first user list.
const readTimeout = 10 * time.Second

// UserRecord is the structured output form of a user.
type UserRecord struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

func toRecords(users []user.User) []UserRecord {
	records := make([]UserRecord, len(users))
	for i, u := range users {
		records[i] = UserRecord{ID: int64(u.ID), Name: u.Name, Email: u.Email}
	}
	return records
}

// NewUsersCommand creates the users command group.
func NewUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, add and delete users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersList(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add a user",
		Long: `Add a user. The last argument is the email, everything before it the name.

Examples:
  userctl users add Alice alice@example.com
  userctl users add Ada Lovelace ada@example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersAdd(opts, cmd, args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersDelete(opts, cmd, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Add users from a JSON or YAML seed file",
		Long: `Add users from a seed file. Entries with a blank name or email are skipped.

File format:
  users:
    - name: Alice
      email: alice@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersImport(opts, cmd, args[0])
		},
	})

	return cmd
}

// ImportResult summarises a users import.
type ImportResult struct {
	Imported int `json:"imported" yaml:"imported"`
	Skipped  int `json:"skipped" yaml:"skipped"`
}

// userSession is one command's view of the user database.
type userSession struct {
	db   *sql.DB
	repo *user.Repository
	vm   *viewmodel.UserViewModel

	mu   sync.Mutex
	errs []error
}

func openUsers(opts *RootOptions, cmd *cobra.Command) (*userSession, error) {
	db, err := persistence.NewSQLiteDB(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	log := opts.logger(cmd.ErrOrStderr())
	s := &userSession{db: db}
	s.repo = user.NewRepository(persistence.NewUserDAO(db, log))
	s.vm = viewmodel.NewUserViewModel(s.repo, log, viewmodel.WithErrorHandler(s.recordError))
	return s, nil
}

func (s *userSession) recordError(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, fmt.Errorf("%s: %w", op, err))
}

// flush waits for issued actions and returns their combined failure.
func (s *userSession) flush() error {
	s.vm.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}

// snapshot returns the current user list.
func (s *userSession) snapshot(ctx context.Context) ([]user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	select {
	case users, ok := <-s.repo.GetAllUsers(ctx):
		if !ok {
			return nil, ctx.Err()
		}
		return users, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *userSession) Close() {
	s.vm.Close()
	s.db.Close()
}

func runUsersList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openUsers(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	users, err := s.snapshot(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read users", err)
	}

	return opts.printer(cmd).Print(toRecords(users), func(w io.Writer) error {
		if len(users) == 0 {
			_, err := fmt.Fprintln(w, "No users.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return tw.Flush()
	})
}

func runUsersAdd(opts *RootOptions, cmd *cobra.Command, args []string) error {
	name := strings.Join(args[:len(args)-1], " ")
	email := args[len(args)-1]
	if len(args) == 1 {
		name, email = args[0], ""
	}

	s, err := openUsers(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.vm.Validate(name, email); err != nil {
		return WrapExitError(ExitFailure, "user rejected", err)
	}

	s.vm.InsertUser(name, email)
	if err := s.flush(); err != nil {
		return WrapExitError(ExitCommandError, "failed to add user", err)
	}

	users, err := s.snapshot(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read users", err)
	}
	if len(users) == 0 {
		return NewExitError(ExitCommandError, "user was not stored")
	}
	added := users[0]

	return opts.printer(cmd).Print(toRecords(users[:1])[0], func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Added #%d %s <%s>\n", added.ID, added.Name, added.Email)
		return err
	})
}

func runUsersDelete(opts *RootOptions, cmd *cobra.Command, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid id", err)
	}

	s, err := openUsers(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	users, err := s.snapshot(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read users", err)
	}

	var target *user.User
	for i := range users {
		if users[i].ID == user.ID(id) {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return NewExitError(ExitFailure, fmt.Sprintf("no user with id %d", id))
	}

	s.vm.DeleteUser(*target)
	if err := s.flush(); err != nil {
		return WrapExitError(ExitCommandError, "failed to delete user", err)
	}

	return opts.printer(cmd).Print(toRecords([]user.User{*target})[0], func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted #%d %s\n", target.ID, target.Name)
		return err
	})
}

func runUsersImport(opts *RootOptions, cmd *cobra.Command, path string) error {
	users, err := filesystem.NewUserLoader().LoadFromFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load users", err)
	}

	s, err := openUsers(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var result ImportResult
	for _, u := range users {
		if s.vm.Validate(u.Name, u.Email) != nil {
			result.Skipped++
			continue
		}
		s.vm.InsertUser(u.Name, u.Email)
		result.Imported++
	}
	if err := s.flush(); err != nil {
		return WrapExitError(ExitCommandError, "failed to import users", err)
	}

	return opts.printer(cmd).Print(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Imported %d users, skipped %d\n", result.Imported, result.Skipped)
		return err
	})
}
