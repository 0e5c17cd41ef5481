package store

import "errors"

var (
	// ErrNotFound means the requested record exists in neither store.
	ErrNotFound = errors.New("record not found")

	// ErrRemoteUnavailable means the remote store failed or is not
	// configured. The adapter absorbs it by falling back to local storage;
	// callers only see it when no local path exists for the operation.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrPersistenceExhausted means both the remote and the local store
	// failed. The write was not persisted anywhere.
	ErrPersistenceExhausted = errors.New("both remote and local persistence failed")

	// ErrMalformedRecord means a stored row could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)
