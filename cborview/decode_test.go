package cborview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Uint(t *testing.T) {
	item, consumed, err := Decode([]byte{0x17})
	require.NoError(t, err, "single-byte uint should decode")
	assert.Equal(t, 1, consumed, "should consume one byte")

	value, ok := item.AsUint()
	require.True(t, ok, "item should be a uint")
	assert.Equal(t, uint64(23), value)
	assert.Equal(t, 0, item.SemanticTagCount(), "plain uint carries no tags")
}

func TestDecode_MultiByteUintArguments(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		expected uint64
	}{
		{"one-byte arg", []byte{0x18, 0xff}, 255},
		{"two-byte arg", []byte{0x19, 0x01, 0x00}, 256},
		{"four-byte arg", []byte{0x1a, 0x00, 0x01, 0x00, 0x00}, 65536},
		{"eight-byte arg", []byte{0x1b, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, 1 << 32},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, _, err := Decode(tc.data)
			require.NoError(t, err)
			value, ok := item.AsUint()
			require.True(t, ok)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestDecode_BytesViewAliasesBuffer(t *testing.T) {
	// bstr(3) "abc" wrapped in nothing: 0x43 'a' 'b' 'c'
	data := []byte{0x43, 'a', 'b', 'c'}

	item, _, err := Decode(data)
	require.NoError(t, err)

	view, ok := item.AsBytesView()
	require.True(t, ok, "item should be a byte string")
	assert.Equal(t, 1, view.Offset, "payload starts after the one-byte header")
	assert.Equal(t, 3, view.Len())
	assert.Equal(t, []byte("abc"), view.Data)
	assert.Same(t, &data[1], &view.Data[0], "view must alias the input buffer, not copy it")
}

func TestDecode_Array(t *testing.T) {
	// [1, "ab", []]
	data := []byte{0x83, 0x01, 0x42, 'a', 'b', 0x80}

	item, consumed, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), consumed)

	elems, ok := item.AsArray()
	require.True(t, ok, "item should be an array")
	require.Len(t, elems, 3)

	value, ok := elems[0].AsUint()
	require.True(t, ok)
	assert.Equal(t, uint64(1), value)

	view, ok := elems[1].AsBytesView()
	require.True(t, ok)
	assert.Equal(t, 3, view.Offset)
	assert.Equal(t, []byte("ab"), view.Data)

	nested, ok := elems[2].AsArray()
	require.True(t, ok)
	assert.Empty(t, nested)
}

func TestDecode_MapPreservesEncodedOrder(t *testing.T) {
	// {2: 20, 1: 10} in that wire order
	data := []byte{0xa2, 0x02, 0x14, 0x01, 0x0a}

	item, _, err := Decode(data)
	require.NoError(t, err)

	pairs, ok := item.AsMap()
	require.True(t, ok, "item should be a map")
	require.Len(t, pairs, 2)

	first, _ := pairs[0].Key.AsUint()
	second, _ := pairs[1].Key.AsUint()
	assert.Equal(t, uint64(2), first, "pairs must keep wire order")
	assert.Equal(t, uint64(1), second)
}

func TestDecode_SemanticTags(t *testing.T) {
	// tag(65536) around uint 1
	data := []byte{0xda, 0x00, 0x01, 0x00, 0x00, 0x01}

	item, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, item.SemanticTagCount())
	assert.Equal(t, uint64(65536), item.SemanticTag(0))

	value, ok := item.AsUint()
	require.True(t, ok, "tag attaches to the inner item")
	assert.Equal(t, uint64(1), value)
}

func TestDecode_NestedSemanticTags(t *testing.T) {
	// tag(1)(tag(2)(0))
	data := []byte{0xc1, 0xc2, 0x00}

	item, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 2, item.SemanticTagCount())
	assert.Equal(t, uint64(1), item.SemanticTag(0), "outermost tag first")
	assert.Equal(t, uint64(2), item.SemanticTag(1))
}

func TestDecode_AccessorTypeMismatch(t *testing.T) {
	item, _, err := Decode([]byte{0x01})
	require.NoError(t, err)

	_, ok := item.AsArray()
	assert.False(t, ok, "uint is not an array")
	_, ok = item.AsMap()
	assert.False(t, ok, "uint is not a map")
	_, ok = item.AsBytesView()
	assert.False(t, ok, "uint is not a byte string")
}

func TestDecode_TextIsNotBytes(t *testing.T) {
	item, _, err := Decode([]byte{0x61, 'x'})
	require.NoError(t, err)
	assert.Equal(t, TypeText, item.Type())

	_, ok := item.AsBytesView()
	assert.False(t, ok, "tstr must not satisfy the bstr accessor")
}

func TestDecode_RejectsIllFormedInput(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty buffer", nil},
		{"lone break", []byte{0xff}},
		{"truncated header", []byte{0x19, 0x01}},
		{"truncated string", []byte{0x43, 'a'}},
		{"truncated array", []byte{0x82, 0x01}},
		{"reserved additional info", []byte{0x1c}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, _, err := Decode(tc.data)
			assert.Error(t, err, "ill-formed input must not decode")
			assert.Nil(t, item)
		})
	}
}

func TestDecode_RejectsIndefiniteLength(t *testing.T) {
	// 0x5f = indefinite bstr, two definite chunks, break. Well-formed CBOR
	// but has no contiguous payload to view.
	data := []byte{0x5f, 0x41, 'a', 0x41, 'b', 0xff}

	item, _, err := Decode(data)
	assert.Error(t, err)
	assert.Nil(t, item)
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	item, _, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err, "more than one top-level item must be rejected")
	assert.Nil(t, item)
}

func TestDecode_RejectsExcessiveNesting(t *testing.T) {
	data := make([]byte, 64)
	for i := range data[:63] {
		data[i] = 0x81 // array(1)
	}
	data[63] = 0x01

	item, _, err := Decode(data)
	assert.Error(t, err, "nesting past the depth limit must be rejected")
	assert.Nil(t, item)
}
