// Package registry defines the client surface over the append-only record
// store and the bounded-retry policy applied to it.
//
// The ledger itself (consensus, storage format) belongs to an external
// service; this package only requires the two operations below and their
// error taxonomy. The store subpackage ships adapters with the same surface
// for self-hosted deployments and tests.
package registry

import (
	"context"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
)

// Client is the two-operation surface over the registry.
//
// Lookup returns sentinel.ErrNotFound when no record exists for the
// fingerprint (a normal negative result) and sentinel.ErrUnavailable on
// transport or timeout failures. Callers must never conflate the two: an
// unavailable registry says nothing about a document's authenticity.
//
// Append returns sentinel.ErrConflict when the fingerprint already has a
// record. Documents are immutable and single-issuance; re-issuing identical
// content is rejected, never overwritten. Atomicity of the check-and-append
// is the store's responsibility.
type Client interface {
	Lookup(ctx context.Context, fp fingerprint.Fingerprint) (*models.Record, error)
	Append(ctx context.Context, record *models.Record) (*models.Receipt, error)
}
