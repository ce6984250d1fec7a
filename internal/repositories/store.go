package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"kedai_pos_backend/pkg/utils"
)

// KVBackend persists the flat key space. Values are JSON documents.
type KVBackend interface {
	Name() string
	Load(ctx context.Context) (map[string][]byte, error)
	// Save applies puts and deletes atomically.
	Save(ctx context.Context, puts map[string][]byte, deletes []string) error
	Ping(ctx context.Context) error
	Close() error
}

const defaultSaveTimeout = 5 * time.Second

// Store holds the cached key space and serialises writers.
// Reads are served from the cache; a Tx holds the write lock until Commit or Rollback.
type Store struct {
	mu      sync.RWMutex
	backend KVBackend
	cache   map[string][]byte

	// degraded is set when the backend could not be reached. Writes then only
	// live in memory until a later commit succeeds and flushes the whole cache.
	degraded       bool
	pendingDeletes map[string]struct{}

	saveTimeout time.Duration
}

// NewStore wraps backend. Call Load before serving requests.
func NewStore(backend KVBackend) *Store {
	return &Store{
		backend:        backend,
		cache:          make(map[string][]byte),
		pendingDeletes: make(map[string]struct{}),
		saveTimeout:    defaultSaveTimeout,
	}
}

// Load replaces the cache with the backend contents. On failure the store
// keeps running in memory and the error is returned for the caller to log.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.degraded = true
		return fmt.Errorf("%w: loading from %s: %v", ErrStorageError, s.backend.Name(), err)
	}
	s.cache = make(map[string][]byte, len(data))
	for k, v := range data {
		s.cache[k] = v
	}
	s.degraded = false
	utils.LogInfo("State loaded", map[string]interface{}{"backend": s.backend.Name(), "keys": len(data)})
	return nil
}

// Get implements Executor.
func (s *Store) Get(key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.cache[key]
	s.mu.RUnlock()
	return decodeValue(key, raw, ok, dest)
}

// View runs fn with a read lock held, so every read inside fn sees the same state.
func (s *Store) View(fn func(ex Executor) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(snapshot{s})
}

type snapshot struct{ s *Store }

func (v snapshot) Get(key string, dest interface{}) (bool, error) {
	raw, ok := v.s.cache[key]
	return decodeValue(key, raw, ok, dest)
}

// Begin starts a write transaction. It blocks until no other transaction is open.
func (s *Store) Begin(ctx context.Context) *Tx {
	s.mu.Lock()
	return &Tx{
		store:   s,
		ctx:     ctx,
		puts:    make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

// BackendName is the configured backend, e.g. "postgres".
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Degraded reports whether recent writes exist only in memory.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Tx stages writes against a Store. Its reads observe its own staged writes.
type Tx struct {
	store   *Store
	ctx     context.Context
	puts    map[string][]byte
	deletes map[string]struct{}
	done    bool
}

// Get implements Executor.
func (t *Tx) Get(key string, dest interface{}) (bool, error) {
	if t.done {
		return false, ErrTxDone
	}
	if _, deleted := t.deletes[key]; deleted {
		return false, nil
	}
	if raw, ok := t.puts[key]; ok {
		return decodeValue(key, raw, true, dest)
	}
	raw, ok := t.store.cache[key]
	return decodeValue(key, raw, ok, dest)
}

// Put stages value, encoded as JSON, under key.
func (t *Tx) Put(key string, value interface{}) error {
	if t.done {
		return ErrTxDone
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrStorageError, key, err)
	}
	t.puts[key] = raw
	delete(t.deletes, key)
	return nil
}

// Delete stages removal of key.
func (t *Tx) Delete(key string) error {
	if t.done {
		return ErrTxDone
	}
	t.deletes[key] = struct{}{}
	delete(t.puts, key)
	return nil
}

// Commit writes the staged changes to the backend and the cache.
// A backend failure does not fail the commit: the change is kept in memory
// and the store is marked degraded.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	s := t.store
	defer s.mu.Unlock()

	if len(t.puts) == 0 && len(t.deletes) == 0 {
		return nil
	}

	puts, deletes := t.puts, sortedKeys(t.deletes)
	if s.degraded {
		puts, deletes = t.fullFlush()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(t.ctx), s.saveTimeout)
	defer cancel()

	if err := s.backend.Save(ctx, puts, deletes); err != nil {
		if !s.degraded {
			utils.LogWarn(err, "Persisting state failed, continuing in memory", map[string]interface{}{"backend": s.backend.Name()})
		}
		s.degraded = true
		for k := range t.deletes {
			s.pendingDeletes[k] = struct{}{}
		}
	} else if s.degraded {
		s.degraded = false
		s.pendingDeletes = make(map[string]struct{})
		utils.LogInfo("Storage backend recovered, state flushed", map[string]interface{}{"backend": s.backend.Name(), "keys": len(puts)})
	}

	for k, v := range t.puts {
		s.cache[k] = v
	}
	for k := range t.deletes {
		delete(s.cache, k)
	}
	return nil
}

// Rollback discards the staged changes.
func (t *Tx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// fullFlush merges the cache with the staged changes so a recovering backend
// receives everything written while it was unreachable.
func (t *Tx) fullFlush() (map[string][]byte, []string) {
	s := t.store
	puts := make(map[string][]byte, len(s.cache)+len(t.puts))
	for k, v := range s.cache {
		puts[k] = v
	}
	for k, v := range t.puts {
		puts[k] = v
	}
	deletes := make(map[string]struct{}, len(s.pendingDeletes)+len(t.deletes))
	for k := range s.pendingDeletes {
		deletes[k] = struct{}{}
	}
	for k := range t.deletes {
		deletes[k] = struct{}{}
		delete(puts, k)
	}
	for k := range puts {
		delete(deletes, k)
	}
	return puts, sortedKeys(deletes)
}

func decodeValue(key string, raw []byte, ok bool, dest interface{}) (bool, error) {
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: decoding %s: %v", ErrStorageError, key, err)
	}
	return true, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
