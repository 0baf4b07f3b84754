package session

import "errors"

// ErrFetchFailed indicates an external-store call failed on a user-initiated
// path. Background refreshes never surface it; they keep the last-known-good
// state instead.
var ErrFetchFailed = errors.New("chat session: external store call failed")
