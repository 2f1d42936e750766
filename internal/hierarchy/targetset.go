package hierarchy

import (
	"sort"
	"strings"
)

// TargetSet is an unordered set of target names. Serialization is always
// lexicographic so identical sets render to identical text.
type TargetSet map[string]bool

// NewTargetSet builds a set from the given names, skipping blanks.
func NewTargetSet(names ...string) TargetSet {
	ts := make(TargetSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ts[name] = true
	}
	return ts
}

func (ts TargetSet) Has(name string) bool {
	return ts[name]
}

func (ts TargetSet) Add(name string) {
	ts[name] = true
}

// Union adds every member of other into ts.
func (ts TargetSet) Union(other TargetSet) {
	for name := range other {
		ts[name] = true
	}
}

// ContainsAll reports whether every member of other is in ts.
func (ts TargetSet) ContainsAll(other TargetSet) bool {
	for name := range other {
		if !ts[name] {
			return false
		}
	}
	return true
}

func (ts TargetSet) Equal(other TargetSet) bool {
	return len(ts) == len(other) && ts.ContainsAll(other)
}

func (ts TargetSet) Clone() TargetSet {
	out := make(TargetSet, len(ts))
	for name := range ts {
		out[name] = true
	}
	return out
}

// Intersect returns the members ts and other share.
func (ts TargetSet) Intersect(other TargetSet) TargetSet {
	out := make(TargetSet)
	for name := range ts {
		if other[name] {
			out[name] = true
		}
	}
	return out
}

// Sorted returns the member names in lexicographic order.
func (ts TargetSet) Sorted() []string {
	out := make([]string, 0, len(ts))
	for name := range ts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// String renders the set as "[a, b, c]".
func (ts TargetSet) String() string {
	return "[" + strings.Join(ts.Sorted(), ", ") + "]"
}
