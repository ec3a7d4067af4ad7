// Package lookup resolves user and course identifiers to display names.
//
// Resolution walks three tiers in a fixed precedence order:
//
//	remote (fetched from the database) → persisted (KV snapshot) → defaults
//
// A nil table is an unpopulated tier and is skipped. An id missing from a
// populated tier falls through to the next one. An id missing everywhere
// resolves to its decimal form; resolution never fails.
package lookup

import "strconv"

// Table maps an identifier to its display name.
type Table map[int64]string

// Tier names the source that answered a resolution.
type Tier string

const (
	TierRemote    Tier = "remote"
	TierPersisted Tier = "persisted"
	TierDefault   Tier = "default"
	TierMiss      Tier = "miss"
)

// Resolve returns the display name for id.
func Resolve(id int64, remote, persisted, defaults Table) string {
	name, _ := ResolveTier(id, remote, persisted, defaults)
	return name
}

// ResolveTier is Resolve that also reports which tier answered.
func ResolveTier(id int64, remote, persisted, defaults Table) (string, Tier) {
	if name, ok := remote.get(id); ok {
		return name, TierRemote
	}
	if name, ok := persisted.get(id); ok {
		return name, TierPersisted
	}
	if name, ok := defaults.get(id); ok {
		return name, TierDefault
	}
	return strconv.FormatInt(id, 10), TierMiss
}

func (t Table) get(id int64) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t[id]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// BuildTable indexes items with label. A nil items slice yields a nil
// (unpopulated) table; an empty slice yields an empty populated one.
func BuildTable[T any](items []T, label func(T) (int64, string)) Table {
	if items == nil {
		return nil
	}
	t := make(Table, len(items))
	for _, it := range items {
		id, name := label(it)
		t[id] = name
	}
	return t
}
