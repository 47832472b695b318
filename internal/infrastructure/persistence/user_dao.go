package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/logger"
	"user-directory-bot/internal/observable"
)

var _ user.DAO = (*UserDAO)(nil)

// UserDAO stores users in the users table and streams the table contents
// to watchers. Every committed write through the DAO bumps an invalidation
// counter, which makes each live stream re-run its query.
type UserDAO struct {
	db            *sql.DB
	logger        *logger.Logger
	invalidations *observable.State[uint64]
}

// NewUserDAO creates a new user DAO
func NewUserDAO(db *sql.DB, logger *logger.Logger) *UserDAO {
	return &UserDAO{
		db:            db,
		logger:        logger.With("component", "user_dao"),
		invalidations: observable.NewState[uint64](0),
	}
}

// InsertUser inserts u, replacing any row with the same ID
func (d *UserDAO) InsertUser(ctx context.Context, u user.User) (user.User, error) {
	query := `INSERT OR REPLACE INTO users (id, name, email) VALUES (?, ?, ?)`

	var id any
	if u.IsStored() {
		id = int64(u.ID)
	}

	result, err := d.db.ExecContext(ctx, query, id, u.Name, u.Email)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user ID: %w", err)
	}

	u.ID = user.ID(newID)
	d.invalidate()
	d.logger.Debug("user stored", "id", newID)

	return u, nil
}

// DeleteUser deletes the row identified by u.ID
func (d *UserDAO) DeleteUser(ctx context.Context, u user.User) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := d.db.ExecContext(ctx, query, int64(u.ID))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected > 0 {
		d.invalidate()
		d.logger.Debug("user deleted", "id", int64(u.ID))
	}

	return nil
}

// GetAllUsers streams the user list ordered by ID descending
func (d *UserDAO) GetAllUsers(ctx context.Context) <-chan []user.User {
	out := make(chan []user.User)
	changes, unsubscribe := d.invalidations.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			}

			users, err := d.queryAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				d.logger.Error("failed to query users", "error", err)
				continue
			}

			select {
			case out <- users:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (d *UserDAO) invalidate() {
	d.invalidations.Update(func(v uint64) uint64 { return v + 1 })
}

func (d *UserDAO) queryAll(ctx context.Context) ([]user.User, error) {
	query := `SELECT id, name, email FROM users ORDER BY id DESC`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var id int64
		var name, email sql.NullString
		if err := rows.Scan(&id, &name, &email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user.User{ID: user.ID(id), Name: name.String, Email: email.String})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
