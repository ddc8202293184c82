// Package apppackage implements parsing and validation of trusted application
// packages, plus the host-side encoder that produces them.
//
// A package is a single CBOR value: an array tagged with TagApp holding
// [version, headers, contents, manifest]. The validator sits on the trust
// boundary: its input arrives before any cryptographic check, so validation
// is fail-closed and first-failure-wins. Every schema rule has its own
// rejection error so operators can tell malformed input from an unsupported
// version from an attack.
//
// Validation is zero-copy: the returned Metadata holds (offset, length)
// ranges into the caller's buffer and owns no package bytes. The metadata is
// only valid while that buffer is alive.
package apppackage
