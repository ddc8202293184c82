package apppackage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTrip(t *testing.T) {
	contents := bytes.Repeat([]byte{0x7f, 'E', 'L', 'F'}, 64)
	manifest := []byte(`{"uuid":"f7e10ab1-60c4-4f23-b9e5-3d8e2b7f1d2a"}`)

	pkg, err := Encode(contents, manifest, nil)
	require.NoError(t, err, "encoding should succeed")

	metadata, err := ParseMetadata(pkg)
	require.NoError(t, err, "encoder output must always validate")

	assert.Equal(t, contents, metadata.Contents.Slice(pkg), "contents must survive the round trip byte for byte")
	assert.Equal(t, manifest, metadata.Manifest.Slice(pkg), "manifest must survive the round trip byte for byte")
}

func TestEncode_Deterministic(t *testing.T) {
	contents := []byte("image")
	manifest := []byte("manifest")

	first, err := Encode(contents, manifest, nil)
	require.NoError(t, err)
	second, err := Encode(contents, manifest, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce identical packages")
}

func TestEncode_EmptyInputs(t *testing.T) {
	pkg, err := Encode(nil, nil, nil)
	require.NoError(t, err)

	metadata, err := ParseMetadata(pkg)
	require.NoError(t, err, "nil inputs encode as empty byte strings, not null")
	assert.Equal(t, 0, metadata.Contents.Length)
	assert.Equal(t, 0, metadata.Manifest.Length)
}

func TestEncode_RejectsUnknownHeaderLabel(t *testing.T) {
	_, err := Encode([]byte("image"), []byte("manifest"), map[HeaderLabel]any{
		HeaderLabel(7): uint64(1),
	})
	assert.ErrorIs(t, err, ErrUnknownHeaderLabel, "the encoder enforces the same label allow-list as the validator")
}
