package store

import "kvstored/source/zset"

// Kind distinguishes the two entry variants a key may hold. An entry's
// kind is fixed at creation; an operation for the other kind on an
// existing entry fails with a type error (dispatch replies with a
// "Wrong type" ERR).
type Kind int

const (
	KindString Kind = iota
	KindZSet
)

func (k Kind) String() string {
	if k == KindZSet {
		return "zset"
	}
	return "string"
}

// Entry is a keyspace value: either an opaque byte string or a sorted
// set. Exactly one of Str / ZSet is meaningful, selected by Kind.
type Entry struct {
	Kind Kind
	Str  []byte
	ZSet *zset.ZSet
}

// NewString builds a STRING entry holding a copy of val.
func NewString(val []byte) *Entry {
	cp := make([]byte, len(val))
	copy(cp, val)
	return &Entry{Kind: KindString, Str: cp}
}

// NewZSet builds an empty ZSET entry.
func NewZSet() *Entry {
	return &Entry{Kind: KindZSet, ZSet: zset.New()}
}
