// Package store implements the keyspace: an unordered mapping of byte
// string keys to Entry values, accessed exclusively by the event-loop
// goroutine (see spec.md §4.2/§5 — no locking is required or provided).
package store

// Keyspace owns every Entry in the store. Destroying a Keyspace destroys
// all of its entries; replacing an entry via Put destroys the one it
// replaces (there is nothing to explicitly free in Go, but the old
// Entry is simply dropped — its ZSet, if any, becomes unreachable).
type Keyspace struct {
	entries map[string]*Entry
}

// New returns an empty keyspace.
func New() *Keyspace {
	return &Keyspace{entries: make(map[string]*Entry)}
}

// Get returns the entry for key, or (nil, false) if key is absent.
func (k *Keyspace) Get(key string) (*Entry, bool) {
	e, ok := k.entries[key]
	return e, ok
}

// Put inserts or replaces the entry for key.
func (k *Keyspace) Put(key string, e *Entry) {
	k.entries[key] = e
}

// Remove deletes the entry for key, reporting whether one was present.
func (k *Keyspace) Remove(key string) bool {
	_, ok := k.entries[key]
	delete(k.entries, key)
	return ok
}

// Keys returns every key currently in the keyspace, in unspecified order.
func (k *Keyspace) Keys() []string {
	out := make([]string, 0, len(k.entries))
	for key := range k.entries {
		out = append(out, key)
	}
	return out
}

// Len returns the number of entries currently in the keyspace.
func (k *Keyspace) Len() int {
	return len(k.entries)
}
