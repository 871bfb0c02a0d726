package services

import "errors"

var (
	// ErrInsufficientIdentity means a report submission carried no usable
	// identity signal: empty content fingerprint, no phone, no URL. Merging
	// such a report risks attaching it to an unrelated empty-content record,
	// so it is rejected outright.
	ErrInsufficientIdentity = errors.New("report has no content, phone number, or url to identify it")

	// ErrStoreUnavailable means the report store could not be reached.
	// Scoring lookups degrade to "not found" on this; report writes must
	// surface it to the caller.
	ErrStoreUnavailable = errors.New("report store unavailable")
)
