package snapshot

import (
	"context"
	"fmt"
	"sync"

	"crmcore/pkg/domain"
)

// Store is the shared in-memory contents of one snapshot backend. The mutex
// guards the contents only; units of work run concurrently on private copies
// and their writes land record by record on commit, the last writer winning.
type Store struct {
	backend Backend

	mu     sync.Mutex
	state  *arena
	loaded bool
}

// NewStore wraps backend. Contents are loaded on first use.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, state: newArena()}
}

// Backend returns the durable backend.
func (s *Store) Backend() Backend { return s.backend }

// open loads the backend contents once. Callers hold mu.
func (s *Store) open(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	buckets, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load %s: %w", domain.ErrStorage, s.backend.Name(), err)
	}
	loaded, err := decodeArena(buckets)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	s.state = loaded
	s.loaded = true
	return nil
}

// flush writes the current contents to the backend. Callers hold mu.
func (s *Store) flush(ctx context.Context) error {
	buckets, err := s.state.encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, buckets); err != nil {
		return fmt.Errorf("save %s: %w", s.backend.Name(), err)
	}
	return nil
}

// snapshot returns a deep copy of the current contents, loading them first
// when needed.
func (s *Store) snapshot(ctx context.Context) (*arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.open(ctx); err != nil {
		return nil, err
	}
	return s.state.clone(), nil
}

// apply lands the writes of tx on the shared contents and flushes them. A
// record created by tx that another transaction committed in the meantime
// fails with CodeAlreadyExists and nothing is applied. When the flush fails
// the contents are restored to what they were before apply.
func (s *Store) apply(ctx context.Context, tx *transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range tx.order {
		if w := tx.writes[key]; w.created && w.exists(s.state) {
			return domain.Errorf(domain.ErrAlreadyExists, "%s %q", key.kind, key.id)
		}
	}
	before := s.state.clone()
	for _, key := range tx.order {
		tx.writes[key].apply(s.state)
	}
	if err := s.flush(ctx); err != nil {
		s.state.replaceWith(before)
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return nil
}

// read runs fn against a deep copy of the current contents.
func (s *Store) read(ctx context.Context, fn func(*arena) error) error {
	view, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	return fn(view)
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }
