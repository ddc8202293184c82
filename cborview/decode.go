package cborview

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// maxNestedLevels bounds tree depth so a deeply nested buffer cannot exhaust
// the stack. Matches the fxamacker decoder default.
const maxNestedLevels = 32

var (
	// ErrTrailingData means the buffer holds bytes after the first item.
	ErrTrailingData = errors.New("extraneous data after top-level item")

	// ErrIndefiniteLength means the buffer uses indefinite-length encoding,
	// which has no contiguous payload and therefore no zero-copy view.
	ErrIndefiniteLength = errors.New("indefinite-length items are not supported")
)

// Decode parses exactly one CBOR data item from data and returns its item
// tree along with the number of bytes consumed. The buffer is first verified
// well-formed by the fxamacker decoder; any deviation, including trailing
// bytes or indefinite-length encoding, is an error and no tree is returned.
//
// The returned tree borrows from data.
func Decode(data []byte) (*Item, int, error) {
	if err := cbor.Wellformed(data); err != nil {
		return nil, 0, err
	}

	d := decoder{buf: data}
	item, err := d.decodeItem(0)
	if err != nil {
		return nil, 0, err
	}
	if d.pos != len(data) {
		return nil, d.pos, ErrTrailingData
	}
	return item, d.pos, nil
}

// Diagnose renders data in CBOR diagnostic notation (RFC 8949 §8) for error
// reporting. Decoding failures should be logged with the diagnostic form when
// available so malformed input is distinguishable from schema violations.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

type decoder struct {
	buf []byte
	pos int
}

// head reads one item header and returns its major type and argument value.
func (d *decoder) head() (major byte, arg uint64, err error) {
	if d.pos >= len(d.buf) {
		return 0, 0, errors.New("unexpected end of buffer")
	}
	b := d.buf[d.pos]
	d.pos++
	major = b >> 5
	ai := b & 0x1f

	switch {
	case ai < 24:
		return major, uint64(ai), nil
	case ai == 31:
		return 0, 0, ErrIndefiniteLength
	case ai > 27:
		return 0, 0, fmt.Errorf("reserved additional information value %d", ai)
	}

	n := 1 << (ai - 24)
	if d.pos+n > len(d.buf) {
		return 0, 0, errors.New("truncated item header")
	}
	for i := 0; i < n; i++ {
		arg = arg<<8 | uint64(d.buf[d.pos+i])
	}
	d.pos += n
	return major, arg, nil
}

func (d *decoder) decodeItem(depth int) (*Item, error) {
	if depth > maxNestedLevels {
		return nil, fmt.Errorf("nesting deeper than %d levels", maxNestedLevels)
	}

	// Collect semantic tags down to the tagged item.
	var tags []uint64
	for {
		if d.pos >= len(d.buf) {
			return nil, errors.New("unexpected end of buffer")
		}
		if d.buf[d.pos]>>5 != 6 {
			break
		}
		_, tag, err := d.head()
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
		depth++
		if depth > maxNestedLevels {
			return nil, fmt.Errorf("nesting deeper than %d levels", maxNestedLevels)
		}
	}

	headPos := d.pos
	major, arg, err := d.head()
	if err != nil {
		return nil, err
	}

	item := &Item{tags: tags}
	switch major {
	case 0:
		item.typ = TypeUint
		item.value = arg

	case 1:
		item.typ = TypeNint
		item.value = arg

	case 2, 3:
		if arg > uint64(len(d.buf)-d.pos) {
			return nil, fmt.Errorf("string length %d exceeds remaining buffer", arg)
		}
		n := int(arg)
		if major == 2 {
			item.typ = TypeBytes
		} else {
			item.typ = TypeText
		}
		item.view = View{Offset: d.pos, Data: d.buf[d.pos : d.pos+n : d.pos+n]}
		d.pos += n

	case 4:
		// Each element takes at least one byte, so the count cannot
		// exceed the remaining buffer. Checked before allocating.
		if arg > uint64(len(d.buf)-d.pos) {
			return nil, fmt.Errorf("array length %d exceeds remaining buffer", arg)
		}
		item.typ = TypeArray
		item.elems = make([]*Item, 0, int(arg))
		for i := uint64(0); i < arg; i++ {
			elem, err := d.decodeItem(depth + 1)
			if err != nil {
				return nil, err
			}
			item.elems = append(item.elems, elem)
		}

	case 5:
		if arg > uint64(len(d.buf)-d.pos)/2 {
			return nil, fmt.Errorf("map length %d exceeds remaining buffer", arg)
		}
		item.typ = TypeMap
		item.pairs = make([]Pair, 0, int(arg))
		for i := uint64(0); i < arg; i++ {
			key, err := d.decodeItem(depth + 1)
			if err != nil {
				return nil, err
			}
			value, err := d.decodeItem(depth + 1)
			if err != nil {
				return nil, err
			}
			item.pairs = append(item.pairs, Pair{Key: key, Value: value})
		}

	case 7:
		item.typ = TypeSimple
		item.value = arg
		if ai := d.buf[headPos] & 0x1f; ai == 24 && arg < 32 {
			return nil, fmt.Errorf("invalid two-byte encoding of simple value %d", arg)
		}

	default:
		// Major 6 is consumed by the tag loop above.
		return nil, fmt.Errorf("unexpected major type %d", major)
	}

	return item, nil
}
