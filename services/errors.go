package services

import "errors"

// Typed failure conditions surfaced by the media lifecycle. Controllers map these
// onto HTTP statuses; nothing is retried or swallowed inside the service layer.
var (
	// ErrNotFound means the requested media id does not exist.
	ErrNotFound = errors.New("media not found")
	// ErrNotOwner means the caller does not own the media record.
	ErrNotOwner = errors.New("not the media owner")
	// ErrOwnershipDenied means the journal service rejected the user for the journal.
	ErrOwnershipDenied = errors.New("journal ownership denied")
	// ErrJournalUnavailable means the journal service could not be reached in time.
	// The caller may retry the whole operation.
	ErrJournalUnavailable = errors.New("journal service unavailable")
	// ErrInvalidRequest means the input failed validation before any collaborator was contacted.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTerminalState means the record is DELETED or FAILED and cannot leave
	// that state.
	ErrTerminalState = errors.New("media is in a terminal state")
)
