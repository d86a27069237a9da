package status

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// TextLimit caps the byte length of a Text value
const TextLimit = 32

// Float is a float64 stored as raw bits
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *Float) Load() float64 { return math.Float64frombits(f.bits.Load()) }

// Text holds a short label such as a mode name or a formatted vector
// Values longer than TextLimit are cut at the last rune boundary that fits
type Text struct {
	v atomic.Pointer[string]
}

func (t *Text) Store(s string) {
	if len(s) > TextLimit {
		n := TextLimit
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	t.v.Store(&s)
}

func (t *Text) Load() string {
	p := t.v.Load()
	if p == nil {
		return ""
	}
	return *p
}

// Table maps metric names to stable cells
// Lookups happen once at wiring time; the returned pointer is then used without the lock
type Table[T any] struct {
	mu    sync.RWMutex
	cells map[string]*T
	order []string
}

func newTable[T any]() *Table[T] {
	return &Table[T]{cells: make(map[string]*T)}
}

// Get returns the cell for name, allocating it on first use
func (t *Table[T]) Get(name string) *T {
	t.mu.RLock()
	c, ok := t.cells[name]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok = t.cells[name]; ok {
		return c
	}
	c = new(T)
	t.cells[name] = c
	i := sort.SearchStrings(t.order, name)
	t.order = append(t.order, "")
	copy(t.order[i+1:], t.order[i:])
	t.order[i] = name
	return c
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Each visits cells in name order
func (t *Table[T]) Each(fn func(name string, cell *T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, name := range t.order {
		fn(name, t.cells[name])
	}
}
