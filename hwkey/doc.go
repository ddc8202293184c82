// Package hwkey provides the apploader's keystore access layer.
//
// The Resolver turns an (operation, key id) pair into a keyslot name, opens
// exactly one keystore session, fetches the slot's bytes under a hard size
// bound, and closes the session on every exit path. It is the only component
// that talks to the keystore on behalf of package verification.
//
// The Service is the server side: a session-oriented keystore whose slots
// live in a pluggable storage backend. It backs the hwkeyd daemon and is
// also usable in-process for tests.
package hwkey
