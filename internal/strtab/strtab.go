// Package strtab interns string literals and assigns them String-table tokens.
package strtab

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"

	"github.com/skdltmxn/nanometa/meta"
)

// Item is an interned string and its assigned token.
type Item struct {
	Content string
	Token   meta.Token
}

// ID returns the string id carried in the token's row.
func (it Item) ID() uint32 { return it.Token.Row() }

// Table assigns sequential ids to distinct strings. Id 0 is reserved for the
// empty string; ids up to LastPreallocated belong to strings known before
// encoding started. It is safe for concurrent use.
type Table struct {
	mu               sync.Mutex
	ids              map[string]uint16
	next             uint32
	lastPreallocated uint16
}

// New creates a table seeded with the empty string followed by preallocated,
// in order. Duplicates keep their first id.
func New(preallocated []string) (*Table, error) {
	t := &Table{
		ids:  map[string]uint16{"": 0},
		next: 1,
	}
	for _, s := range preallocated {
		if _, err := t.intern(s); err != nil {
			return nil, err
		}
	}
	t.lastPreallocated = t.lastID()
	return t, nil
}

// Intern returns the token of s, assigning the next id on first sight.
func (t *Table) Intern(s string) (meta.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.intern(s)
	if err != nil {
		return 0, err
	}
	return meta.NewToken(meta.TableString, uint32(id))
}

func (t *Table) intern(s string) (uint16, error) {
	if id, ok := t.ids[s]; ok {
		return id, nil
	}
	id, err := safecast.Conv[uint16](t.next)
	if err != nil {
		return 0, fmt.Errorf("%w: string table holds %d entries", meta.ErrTableFull, len(t.ids))
	}
	t.ids[s] = id
	t.next++
	return id, nil
}

func (t *Table) lastID() uint16 {
	// next never exceeds 1<<16 while ids fit uint16
	return uint16(t.next - 1)
}

// Lookup returns the token of s if it has been interned.
func (t *Table) Lookup(s string) (meta.Token, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.ids[s]
	if !ok {
		return 0, false
	}
	return meta.MustToken(meta.TableString, uint32(id)), true
}

// LastPreallocated returns the highest id assigned before encoding started.
func (t *Table) LastPreallocated() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastPreallocated
}

// Len returns the number of entries including the empty string.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

// Items returns every entry ordered by token.
func (t *Table) Items() []Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := make([]Item, 0, len(t.ids))
	for s, id := range t.ids {
		items = append(items, Item{Content: s, Token: meta.MustToken(meta.TableString, uint32(id))})
	}
	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.Token, b.Token) })
	return items
}

// Fresh returns the entries interned after the preallocated range, ordered by
// token. The empty string is never part of the result.
func (t *Table) Fresh() []Item {
	boundary := uint32(t.LastPreallocated())
	items := t.Items()
	return slices.DeleteFunc(items, func(it Item) bool {
		return it.ID() == 0 || it.ID() <= boundary
	})
}
