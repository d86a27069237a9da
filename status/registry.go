package status

import (
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade
// The simulation caches cells at construction and stores after every tick;
// the overlay and pose feed only read
type Registry struct {
	Bools   *Table[atomic.Bool]
	Ints    *Table[atomic.Int64]
	Floats  *Table[Float]
	Strings *Table[Text]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   newTable[atomic.Bool](),
		Ints:    newTable[atomic.Int64](),
		Floats:  newTable[Float](),
		Strings: newTable[Text](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Entry is one formatted metric
type Entry struct {
	Key   string
	Value string
}

// Snapshot formats every metric, grouped by type and sorted by key within each group
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, r.TotalCount())
	r.Bools.Each(func(k string, p *atomic.Bool) {
		out = append(out, Entry{k, strconv.FormatBool(p.Load())})
	})
	r.Ints.Each(func(k string, p *atomic.Int64) {
		out = append(out, Entry{k, strconv.FormatInt(p.Load(), 10)})
	})
	r.Floats.Each(func(k string, p *Float) {
		out = append(out, Entry{k, strconv.FormatFloat(p.Load(), 'f', 3, 64)})
	})
	r.Strings.Each(func(k string, p *Text) {
		out = append(out, Entry{k, p.Load()})
	})
	return out
}
