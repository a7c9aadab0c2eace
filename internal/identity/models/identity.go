// Package models defines the identity records attached to verified documents.
package models

import (
	"github.com/google/uuid"

	id "veridoc/pkg/domain"
)

// Kind discriminates which directory owns an identity.
type Kind string

const (
	KindOrganization Kind = "organization"
	KindSubject      Kind = "subject"
)

// Ref names one identity to resolve: an id plus the directory kind. Refs are
// comparable and serve as enrichment cache keys.
type Ref struct {
	ID   uuid.UUID
	Kind Kind
}

// OrganizationRef builds a Ref for an organization id.
func OrganizationRef(orgID id.OrganizationID) Ref {
	return Ref{ID: uuid.UUID(orgID), Kind: KindOrganization}
}

// SubjectRef builds a Ref for a subject id.
func SubjectRef(subjectID id.SubjectID) Ref {
	return Ref{ID: uuid.UUID(subjectID), Kind: KindSubject}
}

// Key returns the cache/singleflight key for the ref.
func (r Ref) Key() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// IdentityRecord is a human-readable identity owned by an external
// directory. The engine only reads and caches these.
type IdentityRecord struct {
	ID          uuid.UUID
	Kind        Kind
	DisplayName string

	// Attributes carries the directory's small descriptive set, e.g. city
	// and school type for an organization, program for a student.
	Attributes map[string]string
}
