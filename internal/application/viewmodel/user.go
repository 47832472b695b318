// Package viewmodel holds the presentation state of the user screen and
// the actions that modify it.
package viewmodel

import (
	"context"
	"errors"
	"strings"
	"time"

	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/logger"
	"user-directory-bot/internal/observable"
)

// DefaultStopTimeout is how long the user list subscription outlives its
// last observer.
const DefaultStopTimeout = 5 * time.Second

var (
	ErrBlankName  = errors.New("name must not be blank")
	ErrBlankEmail = errors.New("email must not be blank")
)

// Repository is the user data source the view-model reads and writes.
type Repository interface {
	GetAllUsers(ctx context.Context) <-chan []user.User
	InsertUser(ctx context.Context, u user.User) (user.User, error)
	DeleteUser(ctx context.Context, u user.User) error
}

// Option configures a UserViewModel.
type Option func(*UserViewModel)

// WithStopTimeout overrides DefaultStopTimeout.
func WithStopTimeout(d time.Duration) Option {
	return func(vm *UserViewModel) {
		vm.stopTimeout = d
	}
}

// WithErrorHandler registers a callback for failed background writes.
func WithErrorHandler(h ErrorHandler) Option {
	return func(vm *UserViewModel) {
		vm.onError = h
	}
}

// UserViewModel exposes the user list as observable state and runs user
// actions in the background.
type UserViewModel struct {
	repo        Repository
	logger      *logger.Logger
	stopTimeout time.Duration
	onError     ErrorHandler

	scope *Scope
	users *observable.Shared[[]user.User]
}

// NewUserViewModel creates a view-model. Call Close when the owning screen
// goes away for good.
func NewUserViewModel(repo Repository, logger *logger.Logger, opts ...Option) *UserViewModel {
	vm := &UserViewModel{
		repo:        repo,
		logger:      logger.With("component", "user_viewmodel"),
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(vm)
	}

	vm.scope = NewScope(context.Background(), vm.logger, vm.onError)
	vm.users = observable.NewShared[[]user.User](vm.scope.Context(), repo.GetAllUsers, vm.stopTimeout, []user.User{})

	return vm
}

// Users is the latest user list, newest first. It starts out empty and is
// kept current while at least one subscriber is attached.
func (vm *UserViewModel) Users() *observable.Shared[[]user.User] {
	return vm.users
}

// Validate reports why InsertUser would drop the given input, if it would.
func (vm *UserViewModel) Validate(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}
	if strings.TrimSpace(email) == "" {
		return ErrBlankEmail
	}
	return nil
}

// InsertUser stores a new user in the background. Blank input is dropped
// without a write and without notice to the caller.
func (vm *UserViewModel) InsertUser(name, email string) {
	if err := vm.Validate(name, email); err != nil {
		vm.logger.Debug("insert dropped", "reason", err)
		return
	}

	u := user.NewUser(name, email)
	vm.launch("insert_user", func(ctx context.Context) error {
		_, err := vm.repo.InsertUser(ctx, u)
		return err
	})
}

// DeleteUser deletes u in the background.
func (vm *UserViewModel) DeleteUser(u user.User) {
	vm.launch("delete_user", func(ctx context.Context) error {
		return vm.repo.DeleteUser(ctx, u)
	})
}

// Wait blocks until all actions issued so far have completed.
func (vm *UserViewModel) Wait() {
	vm.scope.Wait()
}

// Close cancels pending actions and the user list subscription.
func (vm *UserViewModel) Close() {
	vm.scope.Close()
}

func (vm *UserViewModel) launch(op string, fn func(ctx context.Context) error) {
	if !vm.scope.Launch(op, fn) {
		vm.logger.Warn("action dropped, view-model is closed", "op", op)
	}
}
