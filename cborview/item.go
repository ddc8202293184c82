package cborview

// Type discriminates the concrete kind of a decoded item.
type Type uint8

const (
	// TypeUint is an unsigned integer (major type 0).
	TypeUint Type = iota
	// TypeNint is a negative integer (major type 1).
	TypeNint
	// TypeBytes is a definite-length byte string (major type 2).
	TypeBytes
	// TypeText is a definite-length text string (major type 3).
	TypeText
	// TypeArray is a definite-length array (major type 4).
	TypeArray
	// TypeMap is a definite-length map (major type 5).
	TypeMap
	// TypeSimple is a simple value or float (major type 7).
	TypeSimple
)

// String returns the CBOR name of the type for diagnostics.
func (t Type) String() string {
	switch t {
	case TypeUint:
		return "uint"
	case TypeNint:
		return "nint"
	case TypeBytes:
		return "bstr"
	case TypeText:
		return "tstr"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeSimple:
		return "simple"
	default:
		return "unknown"
	}
}

// View is a zero-copy reference to a contiguous byte range of the decoded
// buffer. Data aliases the original buffer; it is never a copy.
type View struct {
	// Offset is the range's start position in the decoded buffer.
	Offset int

	// Data is the buffer subslice covering the range.
	Data []byte
}

// Len returns the length of the viewed range.
func (v View) Len() int {
	return len(v.Data)
}

// Pair is one (key, value) entry of a CBOR map, in encoded order.
type Pair struct {
	Key   *Item
	Value *Item
}

// Item is one node of a decoded CBOR tree. Semantic tags are attached to the
// item they annotate, outermost first.
type Item struct {
	typ   Type
	tags  []uint64
	value uint64 // uint value, or encoded argument of a nint
	view  View   // payload view for bstr/tstr
	elems []*Item
	pairs []Pair
}

// Type returns the item's concrete type, ignoring semantic tags.
func (it *Item) Type() Type {
	return it.typ
}

// SemanticTagCount returns the number of semantic tags attached to the item.
func (it *Item) SemanticTagCount() int {
	return len(it.tags)
}

// SemanticTag returns the i-th semantic tag, outermost first. The caller must
// check SemanticTagCount first.
func (it *Item) SemanticTag(i int) uint64 {
	return it.tags[i]
}

// AsUint returns the item's unsigned integer value. The second return is
// false when the item is not a uint.
func (it *Item) AsUint() (uint64, bool) {
	if it.typ != TypeUint {
		return 0, false
	}
	return it.value, true
}

// AsArray returns the item's elements in encoded order. The second return is
// false when the item is not an array.
func (it *Item) AsArray() ([]*Item, bool) {
	if it.typ != TypeArray {
		return nil, false
	}
	return it.elems, true
}

// AsMap returns the item's entries in encoded order. The second return is
// false when the item is not a map.
func (it *Item) AsMap() ([]Pair, bool) {
	if it.typ != TypeMap {
		return nil, false
	}
	return it.pairs, true
}

// AsBytesView returns a zero-copy view of the item's byte-string payload.
// The second return is false when the item is not a byte string.
func (it *Item) AsBytesView() (View, bool) {
	if it.typ != TypeBytes {
		return View{}, false
	}
	return it.view, true
}
