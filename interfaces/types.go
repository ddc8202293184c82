package interfaces

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeyMaterial holds raw key bytes fetched from a keyslot. It is exclusively
// owned by its holder and must be discarded as soon as verification finishes.
type KeyMaterial []byte

// Operation names the purpose a key is resolved for, e.g. "sign" or "decrypt".
type Operation string

// Operations the apploader resolves keys for.
const (
	// OperationSign selects package signature verification keys.
	OperationSign Operation = "sign"

	// OperationDecrypt selects content decryption keys.
	OperationDecrypt Operation = "decrypt"
)

// KeyID is the small numeric identifier distinguishing keys of the same
// operation.
type KeyID uint8

// KeyslotPrefix is the namespace every apploader keyslot name lives under.
const KeyslotPrefix = "com.android.trusty.apploader."

// KeyslotID is the name addressing a single entry in the keystore.
type KeyslotID string

// NewKeyslotID derives the keyslot name for an (operation, key id) pair.
// The mapping is deterministic and collision-free: distinct pairs always
// produce distinct names.
func NewKeyslotID(op Operation, keyID KeyID) KeyslotID {
	return KeyslotID(KeyslotPrefix + string(op) + ".key." + strconv.FormatUint(uint64(keyID), 10))
}

// ParseKeyslotID validates a raw slot name. Only names under the apploader
// namespace are accepted.
func ParseKeyslotID(raw string) (KeyslotID, error) {
	if !strings.HasPrefix(raw, KeyslotPrefix) {
		return "", fmt.Errorf("keyslot %q outside namespace %q", raw, KeyslotPrefix)
	}
	if len(raw) == len(KeyslotPrefix) {
		return "", errors.New("empty keyslot name after namespace prefix")
	}
	return KeyslotID(raw), nil
}

// String returns the slot name as a plain string.
func (id KeyslotID) String() string {
	return string(id)
}
