package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"user-directory-bot/internal/domain/preferences"
)

var _ preferences.Backend = (*PreferencesBackend)(nil)

// NewPreferencesDB opens the settings database at dbPath
func NewPreferencesDB(dbPath string) (*sql.DB, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}

	if err := createPreferencesTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func createPreferencesTable(db *sql.DB) error {
	preferencesTable := `
	CREATE TABLE IF NOT EXISTS preferences (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, key)
	);`

	if _, err := db.Exec(preferencesTable); err != nil {
		return fmt.Errorf("failed to create preferences table: %w", err)
	}

	return nil
}

// PreferencesBackend keeps preference entries of one namespace in the
// preferences table
type PreferencesBackend struct {
	db        *sql.DB
	namespace string
}

// NewPreferencesBackend creates a settings backend scoped to namespace
func NewPreferencesBackend(db *sql.DB, namespace string) *PreferencesBackend {
	return &PreferencesBackend{db: db, namespace: namespace}
}

// Get retrieves a single entry
func (b *PreferencesBackend) Get(ctx context.Context, key string) (preferences.Entry, bool, error) {
	query := `SELECT kind, value FROM preferences WHERE namespace = ? AND key = ?`

	var kindName, value string
	err := b.db.QueryRowContext(ctx, query, b.namespace, key).Scan(&kindName, &value)
	if err == sql.ErrNoRows {
		return preferences.Entry{}, false, nil
	}
	if err != nil {
		return preferences.Entry{}, false, fmt.Errorf("failed to query preference: %w", err)
	}

	kind, err := preferences.ParseKind(kindName)
	if err != nil {
		return preferences.Entry{}, false, err
	}

	return preferences.Entry{Kind: kind, Data: value}, true, nil
}

// Put writes a single entry, replacing any previous one
func (b *PreferencesBackend) Put(ctx context.Context, key string, e preferences.Entry) error {
	query := `
		INSERT OR REPLACE INTO preferences (namespace, key, kind, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	if _, err := b.db.ExecContext(ctx, query, b.namespace, key, e.Kind.String(), e.Data); err != nil {
		return fmt.Errorf("failed to write preference: %w", err)
	}

	return nil
}

// Delete removes a single entry
func (b *PreferencesBackend) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM preferences WHERE namespace = ? AND key = ?`

	if _, err := b.db.ExecContext(ctx, query, b.namespace, key); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}

	return nil
}

// Clear removes every entry of the namespace
func (b *PreferencesBackend) Clear(ctx context.Context) error {
	query := `DELETE FROM preferences WHERE namespace = ?`

	if _, err := b.db.ExecContext(ctx, query, b.namespace); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}

	return nil
}

// Keys lists the keys of the namespace in lexical order
func (b *PreferencesBackend) Keys(ctx context.Context) ([]string, error) {
	query := `SELECT key FROM preferences WHERE namespace = ? ORDER BY key`

	rows, err := b.db.QueryContext(ctx, query, b.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query preference keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan preference key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preference keys: %w", err)
	}

	return keys, nil
}
