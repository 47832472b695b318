package persistence

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/logger"
	"user-directory-bot/internal/testutil"
)

var (
	insertUserQuery = regexp.QuoteMeta(`INSERT OR REPLACE INTO users (id, name, email) VALUES (?, ?, ?)`)
	deleteUserQuery = regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)
	selectUserQuery = regexp.QuoteMeta(`SELECT id, name, email FROM users ORDER BY id DESC`)
)

func newMockDAO(t *testing.T) (*UserDAO, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserDAO(db, testutil.MakeNoopLogger()), mock
}

func TestUserDAO_InsertUser_StorageFault(t *testing.T) {
	dao, mock := newMockDAO(t)
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "Alice", "a@x.com").
		WillReturnError(diskErr)

	_, err := dao.InsertUser(context.Background(), user.NewUser("Alice", "a@x.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), "failed to insert user")
	assert.Equal(t, uint64(0), dao.invalidations.Value())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_InsertUser_PassesExplicitID(t *testing.T) {
	dao, mock := newMockDAO(t)

	mock.ExpectExec(insertUserQuery).
		WithArgs(int64(7), "Alice", "a@x.com").
		WillReturnResult(sqlmock.NewResult(7, 1))

	u, err := dao.InsertUser(context.Background(), user.User{ID: 7, Name: "Alice", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, user.ID(7), u.ID)
	assert.Equal(t, uint64(1), dao.invalidations.Value())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_DeleteUser_StorageFault(t *testing.T) {
	dao, mock := newMockDAO(t)
	lockErr := errors.New("database is locked")

	mock.ExpectExec(deleteUserQuery).WithArgs(int64(3)).WillReturnError(lockErr)

	err := dao.DeleteUser(context.Background(), user.User{ID: 3})
	assert.ErrorIs(t, err, lockErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_DeleteUser_NoRowsDoesNotInvalidate(t *testing.T) {
	dao, mock := newMockDAO(t)

	mock.ExpectExec(deleteUserQuery).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, dao.DeleteUser(context.Background(), user.User{ID: 3}))
	assert.Equal(t, uint64(0), dao.invalidations.Value())
	assert.NoError(t, mock.ExpectationsWereMet())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestUserDAO_GetAllUsers_SurvivesQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logs := &syncBuffer{}
	dao := NewUserDAO(db, logger.NewWithWriter(logs, 0))

	mock.ExpectQuery(selectUserQuery).WillReturnError(errors.New("malformed database"))
	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "Bob", "b@x.com").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(selectUserQuery).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(int64(2), "Bob", "b@x.com").
			AddRow(int64(1), "Alice", "a@x.com"),
	)

	stream := watch(t, dao)

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "failed to query users")
	}, time.Second, time.Millisecond)

	_, err = dao.InsertUser(context.Background(), user.NewUser("Bob", "b@x.com"))
	require.NoError(t, err)

	assert.Equal(t, []user.User{
		{ID: 2, Name: "Bob", Email: "b@x.com"},
		{ID: 1, Name: "Alice", Email: "a@x.com"},
	}, nextList(t, stream))
	assert.NoError(t, mock.ExpectationsWereMet())
}
