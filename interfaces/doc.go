// Package interfaces defines the core types and contracts shared by the
// package validator, the key resolver, and the keystore service. It provides
// the contract between components without implementation details.
package interfaces
