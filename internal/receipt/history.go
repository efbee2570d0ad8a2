package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/glamournym/nymshop/internal/storage"
)

const (
	indexKey  = "receipt:index"
	keyPrefix = "receipt:"

	// MaxRecords bounds the history; the oldest record and its document
	// are deleted once the cap is exceeded.
	MaxRecords = 50
)

// History is the bounded receipt log: an index of numbers (newest first)
// plus one record per number, both in durable storage.
type History struct {
	provider storage.Provider
	logger   *slog.Logger
}

func NewHistory(provider storage.Provider, logger *slog.Logger) (*History, error) {
	if provider == nil {
		return nil, fmt.Errorf("storage provider is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &History{
		provider: provider,
		logger:   logger,
	}, nil
}

func recordKey(number string) string {
	return keyPrefix + number
}

// loadIndex reads the receipt-number index. Absent or malformed indexes
// start fresh; a fault reading an index must never block a new checkout.
func (h *History) loadIndex(ctx context.Context) []string {
	raw, err := h.provider.Get(ctx, indexKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}
	}
	if err != nil {
		h.logger.Warn("failed to load receipt index, starting fresh", "error", err)
		return []string{}
	}

	var numbers []string
	if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
		h.logger.Warn("receipt index is malformed, starting fresh", "error", err)
		return []string{}
	}
	return numbers
}

// Append stores a record and prepends its number to the index. Either the
// full record ends up in storage and indexed, or neither does: an index
// write failure rolls the record back. Once the index exceeds MaxRecords,
// the oldest number is dropped and its record deleted.
func (h *History) Append(ctx context.Context, record Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode receipt record: %w", err)
	}

	if err := h.provider.Set(ctx, recordKey(record.Number), string(raw)); err != nil {
		return fmt.Errorf("failed to store receipt record: %w", err)
	}

	numbers := append([]string{record.Number}, h.loadIndex(ctx)...)

	var evicted []string
	for len(numbers) > MaxRecords {
		oldest := numbers[len(numbers)-1]
		numbers = numbers[:len(numbers)-1]
		evicted = append(evicted, oldest)
	}

	encoded, err := json.Marshal(numbers)
	if err != nil {
		return fmt.Errorf("failed to encode receipt index: %w", err)
	}
	if err := h.provider.Set(ctx, indexKey, string(encoded)); err != nil {
		if delErr := h.provider.Delete(ctx, recordKey(record.Number)); delErr != nil {
			h.logger.Warn("failed to roll back receipt record after index write failure", "error", delErr, "number", record.Number)
		}
		return fmt.Errorf("failed to update receipt index: %w", err)
	}

	for _, number := range evicted {
		if err := h.provider.Delete(ctx, recordKey(number)); err != nil {
			h.logger.Warn("failed to delete evicted receipt record", "error", err, "number", number)
		}
	}

	return nil
}

// Get returns the record for a receipt number.
func (h *History) Get(ctx context.Context, number string) (Record, error) {
	raw, err := h.provider.Get(ctx, recordKey(number))
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Record{}, fmt.Errorf("receipt record %s is malformed: %w", number, err)
	}
	return record, nil
}

// List returns the stored records in index order (newest first), skipping
// numbers whose record is missing or unreadable.
func (h *History) List(ctx context.Context) []Record {
	numbers := h.loadIndex(ctx)

	records := make([]Record, 0, len(numbers))
	for _, number := range numbers {
		record, err := h.Get(ctx, number)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				h.logger.Warn("skipping unreadable receipt record", "error", err, "number", number)
			}
			continue
		}
		records = append(records, record)
	}
	return records
}

// PruneOlderThan deletes records created before now-age and rewrites the
// index. This is the explicit maintenance path; nothing calls it on a
// schedule. Returns the number of records removed.
func (h *History) PruneOlderThan(ctx context.Context, age time.Duration) (int, error) {
	numbers := h.loadIndex(ctx)
	cutoff := time.Now().Add(-age)

	kept := make([]string, 0, len(numbers))
	pruned := 0
	for _, number := range numbers {
		record, err := h.Get(ctx, number)
		if errors.Is(err, storage.ErrNotFound) {
			pruned++
			continue
		}
		if err != nil {
			h.logger.Warn("dropping unreadable receipt record during prune", "error", err, "number", number)
			if delErr := h.provider.Delete(ctx, recordKey(number)); delErr != nil {
				h.logger.Warn("failed to delete unreadable receipt record", "error", delErr, "number", number)
			}
			pruned++
			continue
		}

		if record.CreatedAt.Before(cutoff) {
			if err := h.provider.Delete(ctx, recordKey(number)); err != nil {
				h.logger.Warn("failed to delete expired receipt record", "error", err, "number", number)
			}
			pruned++
			continue
		}
		kept = append(kept, number)
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		return pruned, fmt.Errorf("failed to encode receipt index: %w", err)
	}
	if err := h.provider.Set(ctx, indexKey, string(encoded)); err != nil {
		return pruned, fmt.Errorf("failed to update receipt index: %w", err)
	}

	return pruned, nil
}
