package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-directory-bot/internal/domain/preferences"
)

func createTestPreferences(t *testing.T, namespace string) (*PreferencesBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	db, err := NewPreferencesDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPreferencesBackend(db, namespace), path
}

func TestPreferencesBackend_PutGet(t *testing.T) {
	b, _ := createTestPreferences(t, preferences.DefaultNamespace)
	ctx := context.Background()

	_, found, err := b.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Put(ctx, "k", preferences.Entry{Kind: preferences.KindLong, Data: "42"}))
	require.NoError(t, b.Put(ctx, "k", preferences.Entry{Kind: preferences.KindInt, Data: "7"}))

	e, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, preferences.Entry{Kind: preferences.KindInt, Data: "7"}, e)
}

func TestPreferencesBackend_NamespacesAreIsolated(t *testing.T) {
	first, path := createTestPreferences(t, "first")
	ctx := context.Background()

	db, err := NewPreferencesDB(path)
	require.NoError(t, err)
	defer db.Close()
	second := NewPreferencesBackend(db, "second")

	require.NoError(t, first.Put(ctx, "k", preferences.Entry{Kind: preferences.KindString, Data: "one"}))
	require.NoError(t, second.Put(ctx, "k", preferences.Entry{Kind: preferences.KindString, Data: "two"}))

	require.NoError(t, first.Clear(ctx))

	_, found, err := first.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	e, found, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", e.Data)
}

func TestPreferencesBackend_DeleteAndKeys(t *testing.T) {
	b, _ := createTestPreferences(t, preferences.DefaultNamespace)
	ctx := context.Background()

	for _, key := range []string{"b", "a", "c"} {
		require.NoError(t, b.Put(ctx, key, preferences.Entry{Kind: preferences.KindBool, Data: "true"}))
	}
	require.NoError(t, b.Delete(ctx, "b"))
	require.NoError(t, b.Delete(ctx, "b"))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestPreferencesBackend_PersistsAcrossReopen(t *testing.T) {
	b, path := createTestPreferences(t, preferences.DefaultNamespace)
	ctx := context.Background()

	store := preferences.NewStore()
	require.NoError(t, store.Init(b))
	require.NoError(t, store.SetValue(ctx, "tags", preferences.StringSet("x", "y")))

	db, err := NewPreferencesDB(path)
	require.NoError(t, err)
	defer db.Close()

	reopened := preferences.NewStore()
	require.NoError(t, reopened.Init(NewPreferencesBackend(db, preferences.DefaultNamespace)))

	tags, err := reopened.GetStringSet(ctx, "tags", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tags)
}

func TestPreferencesBackend_StoreRoundTripAllKinds(t *testing.T) {
	b, _ := createTestPreferences(t, preferences.DefaultNamespace)
	ctx := context.Background()
	store := preferences.NewStore()
	require.NoError(t, store.Init(b))

	tests := []struct {
		key   string
		value preferences.Value
		def   preferences.Value
	}{
		{key: "key_string", value: preferences.String("Hello World"), def: preferences.String("")},
		{key: "key_int", value: preferences.Int(123), def: preferences.Int(0)},
		{key: "key_boolean", value: preferences.Bool(true), def: preferences.Bool(false)},
		{key: "key_float", value: preferences.Float(3.14), def: preferences.Float(0)},
		{key: "key_long", value: preferences.Long(123456789), def: preferences.Long(0)},
		{key: "key_set", value: preferences.StringSet("a", "b", "c"), def: preferences.StringSet()},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := store.GetValue(ctx, tt.key, tt.def)
			require.NoError(t, err)
			assert.True(t, tt.def.Equal(got))

			require.NoError(t, store.SetValue(ctx, tt.key, tt.value))

			got, err = store.GetValue(ctx, tt.key, tt.def)
			require.NoError(t, err)
			assert.True(t, tt.value.Equal(got), "got %v, want %v", got, tt.value)
		})
	}
}

func TestPreferencesBackend_UnknownStoredKind(t *testing.T) {
	b, _ := createTestPreferences(t, preferences.DefaultNamespace)
	ctx := context.Background()

	_, err := b.db.Exec(`INSERT INTO preferences (namespace, key, kind, value) VALUES (?, 'k', 'double', '1.0')`, preferences.DefaultNamespace)
	require.NoError(t, err)

	_, _, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, preferences.ErrUnsupportedType)
}

func TestPreferencesBackend_WriteFault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	b := NewPreferencesBackend(db, "ns")
	fault := errors.New("disk full")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO preferences`)).
		WithArgs("ns", "k", "string", "v").
		WillReturnError(fault)

	err = b.Put(context.Background(), "k", preferences.Entry{Kind: preferences.KindString, Data: "v"})
	assert.ErrorIs(t, err, fault)
	assert.NoError(t, mock.ExpectationsWereMet())
}
