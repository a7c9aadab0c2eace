// Package audit defines the events emitted from domain logic to capture key
// actions. Events are transport-agnostic so publishers can fan out to Kafka,
// memory, or stores without the services knowing.
package audit

import "time"

// Action names the audited operation.
type Action string

const (
	ActionDocumentIssued       Action = "document_issued"
	ActionDocumentVerified     Action = "document_verified"
	ActionVerificationRejected Action = "verification_rejected"
)

// Event captures one audited action. Identity fields are string-typed so the
// package stays free of domain imports; emitters format typed ids at the
// call site.
type Event struct {
	Action    Action
	Timestamp time.Time

	// Fingerprint is the hex digest of the document involved, when any.
	Fingerprint string

	OrganizationID string
	SubjectID      string
	Category       string

	// Outcome summarizes how the action ended (authentic, no_record, ...).
	Outcome string
	Reason  string

	// RequestID is the correlation id from the request context.
	RequestID string
}
