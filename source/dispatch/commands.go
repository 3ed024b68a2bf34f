package dispatch

import (
	"strconv"

	"kvstored/source/store"
	"kvstored/source/wire"
)

func cmdGet(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	e, ok := ks.Get(string(argv[1]))
	if !ok {
		*out = wire.AppendNil(*out)
		return
	}
	if e.Kind != store.KindString {
		*out = wire.AppendErr(*out, "Wrong type")
		return
	}
	*out = wire.AppendStr(*out, e.Str)
}

func cmdSet(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	key := string(argv[1])
	if e, ok := ks.Get(key); ok && e.Kind != store.KindString {
		*out = wire.AppendErr(*out, "Wrong type")
		return
	}
	ks.Put(key, store.NewString(argv[2]))
	*out = wire.AppendStr(*out, []byte("OK"))
}

func cmdDel(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	existed := ks.Remove(string(argv[1]))
	*out = wire.AppendInt(*out, boolToInt(existed))
}

func cmdKeys(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	keys := ks.Keys()
	*out = wire.AppendArrHeader(*out, uint32(len(keys)))
	for _, k := range keys {
		*out = wire.AppendStr(*out, []byte(k))
	}
}

func cmdZAdd(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	key := string(argv[1])
	score, err := parseScore(argv[2])
	if err != nil {
		*out = wire.AppendErr(*out, err.Error())
		return
	}
	member := string(argv[3])

	e, ok := ks.Get(key)
	if !ok {
		e = store.NewZSet()
		ks.Put(key, e)
	} else if e.Kind != store.KindZSet {
		*out = wire.AppendErr(*out, "Wrong type")
		return
	}
	inserted := e.ZSet.Add(member, score)
	*out = wire.AppendInt(*out, boolToInt(inserted))
}

func cmdZRem(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	e, ok := zsetEntry(ks, argv[1], out)
	if !ok {
		return
	}
	removed := e.ZSet.Remove(string(argv[2]))
	*out = wire.AppendInt(*out, boolToInt(removed))
}

func cmdZScore(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	e, ok := zsetEntry(ks, argv[1], out)
	if !ok {
		return
	}
	score, found := e.ZSet.Score(string(argv[2]))
	if !found {
		*out = wire.AppendNil(*out)
		return
	}
	*out = wire.AppendDouble(*out, score)
}

func cmdZQuery(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	e, ok := zsetEntry(ks, argv[1], out)
	if !ok {
		return
	}
	minScore, err := parseScore(argv[2])
	if err != nil {
		*out = wire.AppendErr(*out, err.Error())
		return
	}
	minMember := string(argv[3])
	offset, err := parseNonNegativeInt(argv[4], "offset")
	if err != nil {
		*out = wire.AppendErr(*out, err.Error())
		return
	}
	limit, err := parseNonNegativeInt(argv[5], "limit")
	if err != nil {
		*out = wire.AppendErr(*out, err.Error())
		return
	}

	pairs := e.ZSet.Query(minScore, minMember, offset, limit)
	*out = wire.AppendArrHeader(*out, uint32(2*len(pairs)))
	for _, p := range pairs {
		*out = wire.AppendStr(*out, []byte(p.Member))
		*out = wire.AppendDouble(*out, p.Score)
	}
}

// zsetEntry resolves key to an existing ZSET entry, appending an ERR
// reply and reporting ok=false if the key is absent or holds a STRING.
func zsetEntry(ks *store.Keyspace, key []byte, out *[]byte) (*store.Entry, bool) {
	e, found := ks.Get(string(key))
	if !found {
		*out = wire.AppendErr(*out, "No such key")
		return nil, false
	}
	if e.Kind != store.KindZSet {
		*out = wire.AppendErr(*out, "Wrong type")
		return nil, false
	}
	return e, true
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func parseScore(raw []byte) (float64, error) {
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, errInvalidNumber("score", raw)
	}
	if v != v { // NaN
		return 0, errNaNScore
	}
	return v, nil
}

func parseNonNegativeInt(raw []byte, field string) (int, error) {
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, errInvalidNumber(field, raw)
	}
	return int(v), nil
}
