// Copyright © 2026 The jank authors

package form

import "fmt"

// Conj returns a new collection with x added to coll.  Lists grow at the
// front, vectors at the back.  Conj on a map expects x to be a two element
// vector.  Conj on nil produces a list.  coll is never modified.
func Conj(coll, x *Form) *Form {
	if coll.IsNil() {
		return MakeList(x)
	}
	switch coll.Type {
	case List:
		cells := make([]*Form, 0, len(coll.Cells)+1)
		cells = append(cells, x)
		cells = append(cells, coll.Cells...)
		return &Form{Type: List, Cells: cells, Meta: coll.Meta}
	case Vector:
		cells := make([]*Form, 0, len(coll.Cells)+1)
		cells = append(cells, coll.Cells...)
		cells = append(cells, x)
		return &Form{Type: Vector, Cells: cells, Meta: coll.Meta}
	case Set:
		if Contains(coll, x) {
			return coll
		}
		cells := make([]*Form, 0, len(coll.Cells)+1)
		cells = append(cells, coll.Cells...)
		cells = append(cells, x)
		return &Form{Type: Set, Cells: cells, Meta: coll.Meta}
	case Map:
		if x.Type != Vector || len(x.Cells) != 2 {
			panic(fmt.Sprintf("form: conj onto map requires a map entry, got %v", x.Type))
		}
		return Assoc(coll, x.Cells[0], x.Cells[1])
	}
	panic(fmt.Sprintf("form: conj onto %v", coll.Type))
}

// Assoc returns a new map with key mapped to val.
func Assoc(m, key, val *Form) *Form {
	if m.IsNil() {
		m = &Form{Type: Map}
	}
	if m.Type != Map {
		panic(fmt.Sprintf("form: assoc on %v", m.Type))
	}
	cells := make([]*Form, len(m.Cells), len(m.Cells)+2)
	copy(cells, m.Cells)
	for i := 0; i < len(cells); i += 2 {
		if Equal(cells[i], key) {
			cells[i+1] = val
			return &Form{Type: Map, Cells: cells, Meta: m.Meta}
		}
	}
	cells = append(cells, key, val)
	return &Form{Type: Map, Cells: cells, Meta: m.Meta}
}

// Dissoc returns a new map without key.  When key is absent m itself is
// returned.
func Dissoc(m, key *Form) *Form {
	if m.IsNil() || m.Type != Map {
		return m
	}
	for i := 0; i < len(m.Cells); i += 2 {
		if Equal(m.Cells[i], key) {
			cells := make([]*Form, 0, len(m.Cells)-2)
			cells = append(cells, m.Cells[:i]...)
			cells = append(cells, m.Cells[i+2:]...)
			return &Form{Type: Map, Cells: cells, Meta: m.Meta}
		}
	}
	return m
}

// Get looks up key in map m.
func Get(m, key *Form) (*Form, bool) {
	if m.IsNil() || m.Type != Map {
		return nil, false
	}
	for i := 0; i < len(m.Cells); i += 2 {
		if Equal(m.Cells[i], key) {
			return m.Cells[i+1], true
		}
	}
	return nil, false
}

// Contains reports whether set s contains x, or map s contains key x.
func Contains(s, x *Form) bool {
	if s.IsNil() {
		return false
	}
	switch s.Type {
	case Set:
		for _, e := range s.Cells {
			if Equal(e, x) {
				return true
			}
		}
	case Map:
		_, ok := Get(s, x)
		return ok
	}
	return false
}

// Merge returns a map containing the entries of a overridden by the entries
// of b.  Either may be nil.
func Merge(a, b *Form) *Form {
	if a.IsNil() {
		return b
	}
	if b.IsNil() {
		return a
	}
	for i := 0; i < len(b.Cells); i += 2 {
		a = Assoc(a, b.Cells[i], b.Cells[i+1])
	}
	return a
}

// WithMeta returns a shallow copy of f carrying meta.  Scalars may carry
// metadata as well, though only symbols and collections do so in practice.
func WithMeta(f, meta *Form) *Form {
	if meta != nil && !meta.IsNil() && meta.Type != Map {
		panic(fmt.Sprintf("form: metadata must be a map, got %v", meta.Type))
	}
	cp := *f
	if meta.IsNil() {
		cp.Meta = nil
	} else {
		cp.Meta = meta
	}
	return &cp
}
