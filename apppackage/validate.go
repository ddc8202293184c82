package apppackage

import (
	"fmt"

	"github.com/pth-demo-orga/trusty-lib/cborview"
)

// Range is a non-owning (offset, length) reference into a package buffer.
type Range struct {
	Offset int
	Length int
}

// Slice returns the ranged bytes of pkg without copying. pkg must be the
// exact buffer the range was parsed from.
func (r Range) Slice(pkg []byte) []byte {
	return pkg[r.Offset : r.Offset+r.Length]
}

// Metadata is the validated outcome of parsing a package. It owns no bytes:
// both ranges index into the buffer passed to ParseMetadata and are only
// valid while that buffer is alive.
type Metadata struct {
	// Contents locates the (possibly encrypted) ELF image.
	Contents Range

	// Manifest locates the application manifest.
	Manifest Range
}

// ParseMetadata decodes and validates an application package. The buffer is
// untrusted: every schema rule is enforced and the first violation rejects
// the whole package with its specific reason. On success the returned
// metadata references the contents and manifest byte ranges of pkg.
func ParseMetadata(pkg []byte) (*Metadata, error) {
	root, _, err := cborview.Decode(pkg)
	if err != nil {
		// A buffer can be well-formed CBOR yet still undecodable here, for
		// example with indefinite-length items. Those render in diagnostic
		// notation, which beats a hex dump in the rejection log.
		if diag, derr := cborview.Diagnose(pkg); derr == nil {
			return nil, fmt.Errorf("%w: %v (diagnostic: %s)", ErrDecode, err, diag)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	switch n := root.SemanticTagCount(); {
	case n == 0:
		return nil, ErrMissingTag
	case n > 1:
		return nil, fmt.Errorf("%w: expected 1 tag, got %d", ErrMultipleTags, n)
	}
	if tag := root.SemanticTag(0); tag != TagApp {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongTag, TagApp, tag)
	}

	elems, ok := root.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, root.Type())
	}
	if len(elems) == 0 {
		return nil, ErrEmptyArray
	}

	// Version before element count: a future version may define a different
	// layout, so the count is only meaningful once the version is known to
	// be ours.
	version, ok := elems[0].AsUint()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadVersionType, elems[0].Type())
	}
	if version != FormatVersionCurrent {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrUnsupportedVersion, FormatVersionCurrent, version)
	}

	if len(elems) != packageElementCount {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongElementCount, packageElementCount, len(elems))
	}

	headers, ok := elems[1].AsMap()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadHeadersType, elems[1].Type())
	}
	for _, entry := range headers {
		label, ok := entry.Key.AsUint()
		if !ok {
			return nil, fmt.Errorf("%w: got %s", ErrBadHeaderLabelType, entry.Key.Type())
		}
		if !HeaderLabel(label).Recognized() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHeaderLabel, label)
		}
	}

	contents, ok := elems[2].AsBytesView()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadContentsType, elems[2].Type())
	}
	manifest, ok := elems[3].AsBytesView()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadManifestType, elems[3].Type())
	}

	return &Metadata{
		Contents: Range{Offset: contents.Offset, Length: contents.Len()},
		Manifest: Range{Offset: manifest.Offset, Length: manifest.Len()},
	}, nil
}
