// Package storage provides keyslot store backends for the keystore service.
//
// Backends are addressed by location URI and created through the
// StorageBackendFactory:
//
//   - mem://                        - in-memory store for tests and development
//   - file:///var/lib/hwkeyd       - local filesystem store
//   - vault://host:8200/mount/path - HashiCorp Vault KV v2 store
//   - s3://bucket/prefix?region=r  - Amazon S3 or compatible object store
//   - derived://<hex seed>         - read-only HKDF derivation from a master seed
//
// A replicated multi-store aggregates several backends: stores go to all of
// them, fetches return the first hit.
package storage
