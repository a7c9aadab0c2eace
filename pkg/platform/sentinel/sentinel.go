package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Registry stores, directory
// clients, and blob stores return these (optionally wrapped) so services can
// translate them into coded domain errors.
//
// These represent factual states about external resources, not validation
// failures:
// - ErrNotFound: no record exists for the key (a normal negative result)
// - ErrConflict: the fingerprint already has a record; documents are single-issuance
// - ErrUnavailable: the backing service could not be reached or timed out
// - ErrUnreadable: the submitted stream could not be fully read
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrUnreadable  = errors.New("unreadable input")
)
