// Package history remembers the most recent destinations chosen by
// completed planning sessions.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Capacity bounds the history. Inserting beyond it evicts the oldest
// entry first.
const Capacity = 3

// Pair is one remembered destination: the chosen type name scoped to the
// document the members were moved out of. Recency is per-source-document,
// not global.
type Pair struct {
	TypeName string `json:"type_name"`
	Document string `json:"document"`
}

// History is a bounded FIFO of destination pairs. The zero value is not
// usable; call New.
type History struct {
	cache *lru.Cache[Pair, struct{}]
}

// New returns an empty history.
func New() *History {
	cache, err := lru.New[Pair, struct{}](Capacity)
	if err != nil {
		// Capacity is a positive constant; lru.New cannot fail on it.
		panic(err)
	}
	return &History{cache: cache}
}

// Add records a destination pair. Re-adding an existing pair refreshes
// its position instead of duplicating it.
func (h *History) Add(typeName, document string) {
	h.cache.Add(Pair{TypeName: typeName, Document: document}, struct{}{})
}

// Contains reports whether the pair is present without refreshing its
// position.
func (h *History) Contains(typeName, document string) bool {
	return h.cache.Contains(Pair{TypeName: typeName, Document: document})
}

// Pairs returns the remembered pairs, oldest first.
func (h *History) Pairs() []Pair {
	return h.cache.Keys()
}

// Len returns the number of remembered pairs.
func (h *History) Len() int {
	return h.cache.Len()
}

// Load reads a history file written by Save. A missing file yields an
// empty history. Files holding more than Capacity pairs keep only the
// newest ones.
func Load(path string) (*History, error) {
	h := New()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var pairs []Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("decoding history %s: %w", path, err)
	}

	if len(pairs) > Capacity {
		pairs = pairs[len(pairs)-Capacity:]
	}
	for _, p := range pairs {
		h.cache.Add(p, struct{}{})
	}
	return h, nil
}

// Save writes the history as a JSON array, oldest first. The write is
// atomic: a temp file in the same directory replaces path on success.
func (h *History) Save(path string) error {
	data, err := json.MarshalIndent(h.Pairs(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*")
	if err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}
