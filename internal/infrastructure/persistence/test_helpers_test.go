package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/testutil"
)

func createTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.db")
	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func createTestDAO(t *testing.T) *UserDAO {
	t.Helper()
	db, _ := createTestDB(t)
	return NewUserDAO(db, testutil.MakeNoopLogger())
}

func nextList(t *testing.T, ch <-chan []user.User) []user.User {
	t.Helper()
	select {
	case users, ok := <-ch:
		require.True(t, ok, "stream closed")
		return users
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for user list")
	}
	return nil
}

func watch(t *testing.T, dao *UserDAO) <-chan []user.User {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return dao.GetAllUsers(ctx)
}
