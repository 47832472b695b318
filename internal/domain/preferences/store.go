package preferences

import (
	"context"
	"fmt"
	"sync"
)

// DefaultNamespace is the store name used when none is configured.
const DefaultNamespace = "app_shared_prefs"

// Backend is the settings engine a Store is bound to. It is scoped to one
// namespace; every call is synchronous and atomic.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Store is typed key-value persistence on top of a Backend. It must be bound
// with Init exactly once before use.
type Store struct {
	mu      sync.RWMutex
	backend Backend
}

// NewStore creates an unbound store.
func NewStore() *Store {
	return &Store{}
}

// Init binds the store to backend.
func (s *Store) Init(backend Backend) error {
	if backend == nil {
		return fmt.Errorf("%w: nil backend", ErrUnboundStore)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend != nil {
		return ErrAlreadyBound
	}
	s.backend = backend
	return nil
}

func (s *Store) bound() (Backend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.backend == nil {
		return nil, ErrUnboundStore
	}
	return s.backend, nil
}

// SetValue persists v under key, replacing any previous value.
func (s *Store) SetValue(ctx context.Context, key string, v Value) error {
	b, err := s.bound()
	if err != nil {
		return err
	}

	entry, err := Encode(v)
	if err != nil {
		return err
	}

	if err := b.Put(ctx, key, entry); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// GetValue returns the value stored under key, or def when the key is
// absent. def's kind selects the decoding; a value stored with another kind
// yields ErrTypeMismatch.
func (s *Store) GetValue(ctx context.Context, key string, def Value) (Value, error) {
	b, err := s.bound()
	if err != nil {
		return Value{}, err
	}
	if !def.kind.Valid() {
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, def.kind)
	}

	entry, found, err := b.Get(ctx, key)
	if err != nil {
		return Value{}, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	if !found {
		return def, nil
	}
	if entry.Kind != def.kind {
		return Value{}, fmt.Errorf("%w: %s is %s, requested %s", ErrTypeMismatch, key, entry.Kind, def.kind)
	}

	v, err := Decode(entry)
	if err != nil {
		return Value{}, fmt.Errorf("failed to decode preference %s: %w", key, err)
	}
	return v, nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	b, err := s.bound()
	if err != nil {
		return err
	}
	if err := b.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove preference %s: %w", key, err)
	}
	return nil
}

// Clear deletes every entry of the namespace.
func (s *Store) Clear(ctx context.Context) error {
	b, err := s.bound()
	if err != nil {
		return err
	}
	if err := b.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

func (s *Store) GetString(ctx context.Context, key, def string) (string, error) {
	v, err := s.GetValue(ctx, key, String(def))
	return v.AsString(), err
}

func (s *Store) GetInt(ctx context.Context, key string, def int32) (int32, error) {
	v, err := s.GetValue(ctx, key, Int(def))
	return v.AsInt(), err
}

func (s *Store) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, err := s.GetValue(ctx, key, Bool(def))
	return v.AsBool(), err
}

func (s *Store) GetFloat(ctx context.Context, key string, def float32) (float32, error) {
	v, err := s.GetValue(ctx, key, Float(def))
	return v.AsFloat(), err
}

func (s *Store) GetLong(ctx context.Context, key string, def int64) (int64, error) {
	v, err := s.GetValue(ctx, key, Long(def))
	return v.AsLong(), err
}

func (s *Store) GetStringSet(ctx context.Context, key string, def []string) ([]string, error) {
	v, err := s.GetValue(ctx, key, StringSet(def...))
	if err != nil {
		return nil, err
	}
	return v.AsStringSet(), nil
}

var defaultStore = NewStore()

// Default returns the process-wide store.
func Default() *Store {
	return defaultStore
}

// Init binds the process-wide store. Call it once at startup.
func Init(backend Backend) error {
	return defaultStore.Init(backend)
}

// SetValue sets key in the process-wide store.
func SetValue(ctx context.Context, key string, v Value) error {
	return defaultStore.SetValue(ctx, key, v)
}

// GetValue reads key from the process-wide store.
func GetValue(ctx context.Context, key string, def Value) (Value, error) {
	return defaultStore.GetValue(ctx, key, def)
}

// Remove deletes key from the process-wide store.
func Remove(ctx context.Context, key string) error {
	return defaultStore.Remove(ctx, key)
}

// Clear empties the process-wide store.
func Clear(ctx context.Context) error {
	return defaultStore.Clear(ctx)
}
