package cart

// Package cart owns the list of line items and its durable persistence.
// Every mutation is written through immediately; storage faults in either
// direction are logged and otherwise ignored, so a degraded storage layer
// can never block the shop — only persistence across reloads.

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/glamournym/nymshop/internal/ident"
	"github.com/glamournym/nymshop/internal/storage"
)

const storageKey = "cart:items"

// Store is the single source of truth for the current cart. A mutex stands
// in for the original UI's single-threaded event loop; the HTTP boundary is
// concurrent.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	logger   *slog.Logger
	items    []LineItem
}

// NewStore loads the persisted cart from the provider. An absent record
// starts empty; a malformed one is discarded with a warning. Construction
// never fails on storage grounds.
func NewStore(ctx context.Context, provider storage.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Store{
		provider: provider,
		logger:   logger,
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []LineItem {
	raw, err := s.provider.Get(ctx, storageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []LineItem{}
	}
	if err != nil {
		s.logger.Warn("failed to load cart from storage, starting empty", "error", err)
		return []LineItem{}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("persisted cart is malformed, starting empty", "error", err)
		return []LineItem{}
	}
	if items == nil {
		items = []LineItem{}
	}
	return items
}

func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("failed to encode cart for storage", "error", err)
		return
	}
	if err := s.provider.Set(ctx, storageKey, string(raw)); err != nil {
		s.logger.Warn("failed to persist cart, in-memory state remains authoritative", "error", err)
	}
}

// Add merges into an existing (name, size) line by incrementing its
// quantity, or appends a new line with a fresh identifier. Insertion order
// is preserved for stable rendering. Returns a copy of the affected line.
func (s *Store) Add(ctx context.Context, name string, price Amount, size string, quantity int) LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Name == name && s.items[i].Size == size {
			s.items[i].Quantity += quantity
			s.persistLocked(ctx)
			return s.items[i]
		}
	}

	line := LineItem{
		ID:        ident.LineItemID(),
		Name:      name,
		UnitPrice: price,
		Size:      size,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}
	s.items = append(s.items, line)
	s.persistLocked(ctx)
	return line
}

// Remove deletes the line with the given id. Removing an unknown id is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, id)
}

func (s *Store) removeLocked(ctx context.Context, id string) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persistLocked(ctx)
}

// UpdateQuantity sets a line's quantity in place. A quantity of zero or
// less removes the line entirely. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if quantity <= 0 {
			s.removeLocked(ctx, id)
			return
		}
		s.items[i].Quantity = quantity
		s.persistLocked(ctx)
		return
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	s.persistLocked(ctx)
}

// Items returns a copy of the current ordered line items.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// TotalQuantity is the sum of all line quantities.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}
