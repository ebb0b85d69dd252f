package main

// StringMap is an open-addressing hash map keyed by byte strings, using
// Robin-Hood displacement with backward-shift-free insertion. Grounded on
// original_source/tools/hash-map.h's MAP/GET/BASIC_INSERT/INSERT macros;
// reshaped as a Go generic type so the same implementation serves both
// the label map (string -> *Block) and the constant map (string -> int64).
type StringMap[V any] struct {
	entries  []stringMapEntry[V]
	mask     uint64
	count    int
	maxProbe int
}

type stringMapEntry[V any] struct {
	key      string
	hash     uint64
	value    V
	occupied bool
}

const stringMapInitialSize = 64
const stringMapMaxLoadFactor = 0.9

// NewStringMap allocates a map at the table's standard initial size.
func NewStringMap[V any]() *StringMap[V] {
	return &StringMap[V]{
		entries: make([]stringMapEntry[V], stringMapInitialSize),
		mask:    stringMapInitialSize - 1,
	}
}

// djb2 hashes key the way the original tool does: h = 5381, then
// h = h*33 + c for every byte.
func djb2(key string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(key); i++ {
		h = h*33 + uint64(key[i])
	}
	return h
}

// Get probes linearly from hash&mask, stopping at the recorded maximum
// probe distance or the first empty slot. One map version in the source
// compared entries with `len == len || strncmp == 0`; that's an `&&`
// here, both length and content.
func (m *StringMap[V]) Get(key string) (V, bool) {
	hash := djb2(key)
	pos := hash & m.mask
	for distance := 0; distance <= m.maxProbe; distance++ {
		e := &m.entries[pos]
		if !e.occupied {
			break
		}
		if len(e.key) == len(key) && e.key == key {
			return e.value, true
		}
		pos = (pos + 1) & m.mask
	}
	var zero V
	return zero, false
}

// Insert grows the table when the load factor crosses 0.9, then performs
// a Robin-Hood basic insert.
func (m *StringMap[V]) Insert(key string, value V) {
	m.count++
	if float64(m.count)/float64(len(m.entries)) > stringMapMaxLoadFactor {
		m.grow()
	}
	m.basicInsert(key, value, djb2(key))
}

func (m *StringMap[V]) basicInsert(key string, value V, hash uint64) {
	pos := hash & m.mask
	incoming := stringMapEntry[V]{key: key, value: value, hash: hash, occupied: true}
	for distance := uint64(0); ; distance++ {
		e := &m.entries[pos]
		if !e.occupied {
			*e = incoming
			if distance > uint64(m.maxProbe) {
				m.maxProbe = int(distance)
			}
			return
		}
		incumbentDistance := (pos - e.hash) & m.mask
		if incumbentDistance < distance {
			if distance > uint64(m.maxProbe) {
				m.maxProbe = int(distance)
			}
			*e, incoming = incoming, *e
			distance = incumbentDistance
		}
		pos = (pos + 1) & m.mask
	}
}

// grow multiplies the table size by four (mask = (mask<<2)|3) and
// rehashes every occupied entry, matching the original source's resize
// shift/mask pair.
func (m *StringMap[V]) grow() {
	old := m.entries
	m.mask = (m.mask << 2) | 3
	m.entries = make([]stringMapEntry[V], m.mask+1)
	m.maxProbe = 0
	for _, e := range old {
		if e.occupied {
			m.basicInsert(e.key, e.value, e.hash)
		}
	}
}

// Count returns the number of keys currently stored.
func (m *StringMap[V]) Count() int {
	return m.count
}
