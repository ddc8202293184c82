// Package cborview provides a zero-copy, navigable view over a single CBOR
// data item. Buffers are first checked for well-formedness with
// github.com/fxamacker/cbor, then walked into a tree of typed items whose
// byte-string leaves reference the original buffer without copying.
//
// The package exists because reflection-based CBOR decoding copies byte
// strings; the package validator needs (offset, length) views into the exact
// input buffer so downstream verification operates on the attacker-supplied
// bytes and nothing else.
//
// Item trees borrow from the decoded buffer. An Item must not be used after
// the buffer it was decoded from is freed or reused.
package cborview
