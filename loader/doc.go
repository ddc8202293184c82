// Package loader composes package admission: structural validation of the
// application package, resolution of the verification key from the keystore,
// and verification of the package's detached signature. A package whose
// signature does not verify is rejected before its contents or manifest are
// handed to anything else.
package loader
