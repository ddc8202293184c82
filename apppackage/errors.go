package apppackage

import "errors"

// Rejection reasons. Each schema rule fails with its own sentinel so callers
// can branch with errors.Is; the wrapped message carries the observed value.
var (
	// ErrDecode means the buffer is not a single well-formed CBOR value.
	ErrDecode = errors.New("package is not well-formed CBOR")

	// ErrMissingTag means the root value carries no semantic tag.
	ErrMissingTag = errors.New("package has no semantic tag")

	// ErrMultipleTags means the root value carries more than one semantic tag.
	ErrMultipleTags = errors.New("package has more than one semantic tag")

	// ErrWrongTag means the root value's semantic tag is not TagApp.
	ErrWrongTag = errors.New("package semantic tag mismatch")

	// ErrNotArray means the tagged value is not an array.
	ErrNotArray = errors.New("package is not a CBOR array")

	// ErrEmptyArray means the package array has no elements.
	ErrEmptyArray = errors.New("package array is empty")

	// ErrBadVersionType means element 0 is not an unsigned integer.
	ErrBadVersionType = errors.New("package version is not a uint")

	// ErrUnsupportedVersion means element 0 is not FormatVersionCurrent.
	ErrUnsupportedVersion = errors.New("unsupported package format version")

	// ErrWrongElementCount means the array does not have exactly four elements.
	ErrWrongElementCount = errors.New("wrong package element count")

	// ErrBadHeadersType means element 1 is not a map.
	ErrBadHeadersType = errors.New("package headers is not a map")

	// ErrBadHeaderLabelType means a headers key is not an unsigned integer.
	ErrBadHeaderLabelType = errors.New("package header label is not a uint")

	// ErrUnknownHeaderLabel means a headers key is outside the allow-list.
	ErrUnknownHeaderLabel = errors.New("unknown package header label")

	// ErrBadContentsType means element 2 is not a byte string.
	ErrBadContentsType = errors.New("package contents is not a byte string")

	// ErrBadManifestType means element 3 is not a byte string.
	ErrBadManifestType = errors.New("package manifest is not a byte string")
)
