package apppackage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. The same application always produces identical
// package bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("apppackage: CBOR encoder initialization failed: " + err.Error())
	}
}

// Encode builds a version-1 application package from an ELF image and a
// manifest, with headers drawn from the recognized label set. A nil headers
// map encodes as the empty map.
//
// Encode is the host-side counterpart of ParseMetadata; its output always
// validates.
func Encode(contents, manifest []byte, headers map[HeaderLabel]any) ([]byte, error) {
	// nil slices would encode as CBOR null rather than empty bstr.
	if contents == nil {
		contents = []byte{}
	}
	if manifest == nil {
		manifest = []byte{}
	}

	wire := make(map[uint64]any, len(headers))
	for label, value := range headers {
		if !label.Recognized() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHeaderLabel, label)
		}
		wire[uint64(label)] = value
	}

	pkg, err := encMode.Marshal(cbor.Tag{
		Number: TagApp,
		Content: []any{
			FormatVersionCurrent,
			wire,
			contents,
			manifest,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode package: %w", err)
	}
	return pkg, nil
}
