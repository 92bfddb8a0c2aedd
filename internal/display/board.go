// Package display holds the named text slots shown on the dashboard.
package display

import (
	"sync"
	"time"
)

// Update sets one slot's text.
type Update struct {
	Slot string
	Text string
}

// Snapshot is a consistent copy of the board.
type Snapshot struct {
	Slots     map[string]string `json:"slots"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Board is a fixed set of named slots. Slots are declared up front; updates
// to undeclared slots are dropped.
type Board struct {
	mu        sync.RWMutex
	order     []string
	slots     map[string]string
	updatedAt time.Time
	now       func() time.Time
}

// NewBoard declares the given slots, each starting with placeholder text.
func NewBoard(placeholder string, slots ...string) *Board {
	b := &Board{
		slots: make(map[string]string, len(slots)),
		now:   time.Now,
	}
	for _, s := range slots {
		if _, dup := b.slots[s]; dup {
			continue
		}
		b.order = append(b.order, s)
		b.slots[s] = placeholder
	}
	return b
}

func (b *Board) Has(slot string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.slots[slot]
	return ok
}

// Apply writes all updates under one lock, so readers never see a mix of
// two batches. It returns the number of slots written.
func (b *Board) Apply(updates []Update) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, u := range updates {
		if _, ok := b.slots[u.Slot]; !ok {
			continue
		}
		b.slots[u.Slot] = u.Text
		n++
	}
	if n > 0 {
		b.updatedAt = b.now()
	}
	return n
}

// Text returns the slot text and whether the slot exists.
func (b *Board) Text(slot string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.slots[slot]
	return t, ok
}

// Slots lists slot names in declaration order.
func (b *Board) Slots() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := make(map[string]string, len(b.slots))
	for k, v := range b.slots {
		m[k] = v
	}
	return Snapshot{Slots: m, UpdatedAt: b.updatedAt}
}
