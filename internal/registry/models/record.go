// Package models defines the registry's record types.
package models

import (
	"time"

	"veridoc/internal/fingerprint"
	id "veridoc/pkg/domain"
)

// Category classifies an issued document.
type Category string

const (
	CategoryDiploma       Category = "DIPLOME"
	CategoryTranscript    Category = "RELEVE_NOTES"
	CategoryAttestation   Category = "ATTESTATION"
	CategoryCertification Category = "CERTIFICATION"
)

// Record is the authoritative entry for an issued document, keyed by content
// fingerprint. Records are created once at issuance and never mutated; the
// registry is append-only.
type Record struct {
	Fingerprint    fingerprint.Fingerprint
	OrganizationID id.OrganizationID
	SubjectID      id.SubjectID
	Category       Category

	// ProvenanceToken is an opaque ledger transaction reference produced by
	// the issuance workflow.
	ProvenanceToken string

	// StorageLocator points at the archived original file.
	StorageLocator string

	CreatedAt time.Time
}

// Receipt acknowledges a successful append.
type Receipt struct {
	Fingerprint     fingerprint.Fingerprint
	ProvenanceToken string
	AppendedAt      time.Time
}
