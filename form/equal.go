// Copyright © 2026 The jank authors

package form

import (
	"hash/fnv"
	"math"
)

// Equal reports whether a and b are structurally equal.  Metadata and
// source locations never participate in equality.  Lists and vectors with
// equal elements are equal to each other; maps and sets compare without
// regard to element order.
func Equal(a, b *Form) bool {
	if a == b {
		return true
	}
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	if isSequential(a) && isSequential(b) {
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Bool:
		return a.Bool == b.Bool
	case Int:
		return a.Int == b.Int
	case Float:
		return a.Float == b.Float
	case String:
		return a.Str == b.Str
	case Keyword, Symbol:
		return a.NS == b.NS && a.Str == b.Str
	case Map:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < len(a.Cells); i += 2 {
			v, ok := Get(b, a.Cells[i])
			if !ok || !Equal(a.Cells[i+1], v) {
				return false
			}
		}
		return true
	case Set:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for _, e := range a.Cells {
			if !Contains(b, e) {
				return false
			}
		}
		return true
	}
	return false
}

func isSequential(f *Form) bool {
	return f.Type == List || f.Type == Vector
}

// Hash returns a hash code for f that is consistent with Equal.
func Hash(f *Form) uint64 {
	if f.IsNil() {
		return 0
	}
	h := fnv.New64a()
	write := func(tag byte, s string) uint64 {
		h.Reset()
		_, _ = h.Write([]byte{tag})
		_, _ = h.Write([]byte(s))
		return h.Sum64()
	}
	switch f.Type {
	case Bool:
		if f.Bool {
			return 1231
		}
		return 1237
	case Int:
		return mix(uint64(f.Int))
	case Float:
		return mix(math.Float64bits(f.Float)) ^ 0x9e3779b97f4a7c15
	case String:
		return write('s', f.Str)
	case Keyword:
		return write(':', f.Name())
	case Symbol:
		return write('\'', f.Name())
	case List, Vector:
		var acc uint64 = 1
		for _, c := range f.Cells {
			acc = 31*acc + Hash(c)
		}
		return acc
	case Map:
		var acc uint64
		for i := 0; i < len(f.Cells); i += 2 {
			acc += Hash(f.Cells[i]) ^ Hash(f.Cells[i+1])
		}
		return acc
	case Set:
		var acc uint64
		for _, c := range f.Cells {
			acc += Hash(c)
		}
		return acc
	}
	return 0
}

// mix is the finalizer from splitmix64.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
