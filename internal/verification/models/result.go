// Package models defines the verification result returned to callers.
package models

import (
	identitymodels "veridoc/internal/identity/models"
	registrymodels "veridoc/internal/registry/models"
)

// Messages carried by Result. The message is the human-readable counterpart
// of the outcome; callers branch on Valid, humans read Message.
const (
	MessageAuthentic           = "document authentic"
	MessageNoRecord            = "no matching record"
	MessageRegistryUnavailable = "registry unavailable"
	MessageUnreadableFile      = "unreadable file"
)

// Advisory notes attached when enrichment partially fails. They never affect
// Valid.
const (
	NoteOrganizationUnavailable = "organization details unavailable"
	NoteSubjectUnavailable      = "subject details unavailable"
)

// Result is the outcome of one verification call.
//
// Invariants: Valid == false implies Record, Organization, and Subject are
// all nil. Enrichment failure never downgrades Valid from true to false; it
// only leaves the corresponding identity nil and adds an advisory note.
type Result struct {
	Valid   bool
	Message string

	// Record is the matched registry record; set only when Valid.
	Record *registrymodels.Record

	// Organization and Subject are best-effort enrichments, each
	// independently nil when its resolution failed.
	Organization *identitymodels.IdentityRecord
	Subject      *identitymodels.IdentityRecord

	// Notes carries advisory messages about missing optional fields.
	Notes []string
}
