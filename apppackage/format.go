package apppackage

// TagApp is the CBOR semantic tag marking a value as a trusted application
// package. A package must carry exactly this tag, exactly once.
const TagApp uint64 = 65536

// FormatVersionCurrent is the only package format version this validator
// understands. The version is checked before the element count so a package
// from a future version is rejected as unsupported rather than malformed.
const FormatVersionCurrent uint64 = 1

// packageElementCount is the number of array elements in a version-1 package:
// version, headers, contents, manifest.
const packageElementCount = 4

// HeaderLabel identifies an entry in a package's headers map.
type HeaderLabel uint64

// recognizedHeaderLabels is the closed set of header labels this validator
// accepts. The set is an allow-list: a label outside it rejects the whole
// package, it is never skipped. No labels are defined for format version 1,
// so any header present is a rejection.
var recognizedHeaderLabels = map[HeaderLabel]struct{}{}

// Recognized reports whether the label is a member of the allow-list.
func (l HeaderLabel) Recognized() bool {
	_, ok := recognizedHeaderLabels[l]
	return ok
}
