// Package domain defines the typed identifiers shared across features.
//
// IDs are distinct uuid-backed types so an organization id can never be
// passed where a subject id is expected. Parsing happens once, at trust
// boundaries; everything past the handler layer works with typed values.
package domain

import (
	"github.com/google/uuid"

	dErrors "veridoc/pkg/domain-errors"
)

// OrganizationID identifies an issuing organization (school or company).
type OrganizationID uuid.UUID

// SubjectID identifies a document subject (a student, typically).
type SubjectID uuid.UUID

func (id OrganizationID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) String() string      { return uuid.UUID(id).String() }

// IsZero reports whether the id is the nil UUID.
func (id OrganizationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// IsZero reports whether the id is the nil UUID.
func (id SubjectID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// ParseOrganizationID parses and validates an organization id.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseOrganizationID(s string) (OrganizationID, error) {
	u, err := parseUUID(s, "organization id")
	if err != nil {
		return OrganizationID{}, err
	}
	return OrganizationID(u), nil
}

// ParseSubjectID parses and validates a subject id.
func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s, "subject id")
	if err != nil {
		return SubjectID{}, err
	}
	return SubjectID(u), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}
