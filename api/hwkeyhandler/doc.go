// Package hwkeyhandler exposes the keystore service over HTTP and provides
// the matching client.
//
// The wire protocol mirrors the keystore's session model:
//
//	POST   /api/hwkey/session                    open a session
//	DELETE /api/hwkey/session/{session_id}       close a session
//	GET    /api/hwkey/keyslot/{slot_id}          fetch a slot within a session
//
// Keyslot fetches carry the session ID in the X-Hwkey-Session header and the
// caller's size bound in the max_size query parameter. The server never
// returns more than the bound: an oversized slot is a 413, not a truncated
// body.
package hwkeyhandler
