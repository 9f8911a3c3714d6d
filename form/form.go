// Copyright © 2026 The jank authors

// Package form defines the symbolic forms produced by the reader and consumed
// by the analyzer.
//
// Only the small part of the persistent-collection runtime that analysis
// touches is implemented here: structural equality, hashing, conjoining and
// metadata.  Collections are immutable once built; every operation that
// "changes" a collection returns a new one.
package form

// Type is the type of a Form.
type Type uint8

// Possible Type values
const (
	// Invalid (0) is not a valid form type.
	Invalid Type = iota
	// Nil is the nil literal.
	Nil
	// Bool values store their value in Form.Bool.
	Bool
	// Int values store their value in Form.Int.
	Int
	// Float values store their value in Form.Float.
	Float
	// String values store their contents in Form.Str.
	String
	// Keyword values store their name in Form.Str and an optional namespace
	// in Form.NS.
	Keyword
	// Symbol values store their name in Form.Str and an optional namespace
	// in Form.NS.
	Symbol
	// List values store their elements in Form.Cells.
	List
	// Vector values store their elements in Form.Cells.
	Vector
	// Map values store alternating keys and values in Form.Cells.  Keys are
	// unique under Equal.
	Map
	// Set values store their elements in Form.Cells.  Elements are unique
	// under Equal.
	Set
	typeMax
)

var typeStrings = [typeMax]string{
	Invalid: "invalid",
	Nil:     "nil",
	Bool:    "boolean",
	Int:     "integer",
	Float:   "real",
	String:  "string",
	Keyword: "keyword",
	Symbol:  "symbol",
	List:    "list",
	Vector:  "vector",
	Map:     "map",
	Set:     "set",
}

func (t Type) String() string {
	if t >= typeMax {
		return typeStrings[Invalid]
	}
	return typeStrings[t]
}

// Form is a symbolic form.
type Form struct {
	// Source is the location the form was read from.  Programs should not
	// modify the contents of Source as the reference may be shared by
	// multiple forms.
	Source *Location

	// Meta is a Map form or nil.
	Meta *Form

	// NS is the namespace of a qualified symbol or keyword.
	NS string

	// Str is used by String, Symbol and Keyword forms.
	Str string

	// Cells holds the elements of collection forms.
	Cells []*Form

	Int   int64
	Float float64
	Bool  bool

	Type Type
}

// MakeNil returns the nil form.
func MakeNil() *Form {
	return &Form{Type: Nil}
}

// MakeBool returns a boolean form.
func MakeBool(b bool) *Form {
	return &Form{Type: Bool, Bool: b}
}

// MakeInt returns an integer form.
func MakeInt(x int64) *Form {
	return &Form{Type: Int, Int: x}
}

// MakeFloat returns a real number form.
func MakeFloat(x float64) *Form {
	return &Form{Type: Float, Float: x}
}

// MakeString returns a string form.
func MakeString(s string) *Form {
	return &Form{Type: String, Str: s}
}

// MakeKeyword returns an unqualified keyword form.
func MakeKeyword(name string) *Form {
	return &Form{Type: Keyword, Str: name}
}

// MakeQualifiedKeyword returns a keyword in namespace ns.
func MakeQualifiedKeyword(ns, name string) *Form {
	return &Form{Type: Keyword, NS: ns, Str: name}
}

// MakeSymbol returns an unqualified symbol form.
func MakeSymbol(name string) *Form {
	return &Form{Type: Symbol, Str: name}
}

// MakeQualifiedSymbol returns a symbol in namespace ns.
func MakeQualifiedSymbol(ns, name string) *Form {
	return &Form{Type: Symbol, NS: ns, Str: name}
}

// MakeList returns a list of the given elements.  The slice is owned by the
// returned form.
func MakeList(cells ...*Form) *Form {
	return &Form{Type: List, Cells: cells}
}

// MakeVector returns a vector of the given elements.  The slice is owned by
// the returned form.
func MakeVector(cells ...*Form) *Form {
	return &Form{Type: Vector, Cells: cells}
}

// MakeMap returns a map built from alternating keys and values.  Later
// duplicate keys replace earlier ones.
func MakeMap(kvs ...*Form) *Form {
	if len(kvs)%2 != 0 {
		panic("form: odd number of map cells")
	}
	m := &Form{Type: Map}
	for i := 0; i < len(kvs); i += 2 {
		m = Assoc(m, kvs[i], kvs[i+1])
	}
	return m
}

// MakeSet returns a set of the given elements.  Duplicates are dropped.
func MakeSet(elems ...*Form) *Form {
	s := &Form{Type: Set}
	for _, e := range elems {
		s = Conj(s, e)
	}
	return s
}

// IsNil returns true if f is the nil form.
func (f *Form) IsNil() bool {
	return f == nil || f.Type == Nil
}

// IsSymbol returns true if f is a symbol named name in namespace ns.
func (f *Form) IsSymbol(ns, name string) bool {
	return f != nil && f.Type == Symbol && f.NS == ns && f.Str == name
}

// IsColl returns true if f is a collection form.
func (f *Form) IsColl() bool {
	switch f.Type {
	case List, Vector, Map, Set:
		return true
	}
	return false
}

// Qualified returns true if f is a namespace qualified symbol or keyword.
func (f *Form) Qualified() bool {
	return f.NS != ""
}

// Name returns the full printed name of a symbol or keyword without the
// leading colon of keywords.
func (f *Form) Name() string {
	if f.NS == "" {
		return f.Str
	}
	return f.NS + "/" + f.Str
}

// Len returns the number of logical elements of a collection.  Maps count
// entries, not cells.
func (f *Form) Len() int {
	if f.Type == Map {
		return len(f.Cells) / 2
	}
	return len(f.Cells)
}

// Head returns the first element of a list, or nil.
func (f *Form) Head() *Form {
	if f.Type != List || len(f.Cells) == 0 {
		return nil
	}
	return f.Cells[0]
}

// Rest returns all but the first element of a list.
func (f *Form) Rest() []*Form {
	if len(f.Cells) == 0 {
		return nil
	}
	return f.Cells[1:]
}
