// Package issuance registers new documents: fingerprint the content, append
// the record to the registry, archive the original file, and hand the caller
// a signed receipt. The registry's append-once semantics make duplicate
// content a conflict, never a silent overwrite.
package issuance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry"
	registrymodels "veridoc/internal/registry/models"
	id "veridoc/pkg/domain"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/audit"
	"veridoc/pkg/platform/audit/publisher"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/requestcontext"
)

// Request carries everything needed to issue one document.
type Request struct {
	OrganizationID id.OrganizationID
	SubjectID      id.SubjectID
	Category       registrymodels.Category
	FileName       string
	Content        []byte
}

// Result is the outcome of a successful issuance.
type Result struct {
	Record        *registrymodels.Record
	Receipt       *registrymodels.Receipt
	SignedReceipt string
}

// Service drives the issuance workflow.
type Service struct {
	registry       registry.Client
	blobs          BlobStore
	signer         *ReceiptSigner
	logger         *slog.Logger
	auditPublisher publisher.Publisher
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// New constructs the issuance service.
func New(registryClient registry.Client, blobs BlobStore, signer *ReceiptSigner, opts ...Option) *Service {
	s := &Service{registry: registryClient, blobs: blobs, signer: signer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue registers the document. Identical content issued twice fails with a
// conflict; the registry state remains exactly what the first issuance wrote.
func (s *Service) Issue(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fp, err := fingerprint.Compute(bytes.NewReader(req.Content))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unreadable file content")
	}

	record := &registrymodels.Record{
		Fingerprint:    fp,
		OrganizationID: req.OrganizationID,
		SubjectID:      req.SubjectID,
		Category:       req.Category,
		// The ledger transaction reference; the external registry echoes it
		// back in the receipt.
		ProvenanceToken: "tx-" + uuid.NewString(),
		StorageLocator:  locatorFor(fp, req.FileName),
		CreatedAt:       requestcontext.Now(ctx),
	}

	receipt, err := s.registry.Append(ctx, record)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "a document with identical content is already registered")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register document")
		}
	}

	// Archive after the append: a conflict must not leave an orphan blob.
	if err := s.blobs.Save(ctx, record.StorageLocator, req.Content); err != nil {
		// The record is already on the ledger; losing the archive copy is
		// recoverable, so log and continue.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to archive issued document",
				"fingerprint", fp.Hex(),
				"locator", record.StorageLocator,
				"error", err,
			)
		}
	}

	signed, err := s.signer.Sign(record, receipt.AppendedAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign receipt")
	}

	s.emitIssued(ctx, record)

	return &Result{Record: record, Receipt: receipt, SignedReceipt: signed}, nil
}

// Download returns the registry record and archived file for a fingerprint.
// Unknown fingerprints and missing archive copies both surface as not-found;
// a registered record whose blob is gone is still not servable.
func (s *Service) Download(ctx context.Context, fp fingerprint.Fingerprint) (*registrymodels.Record, []byte, error) {
	record, err := s.registry.Lookup(ctx, fp)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "no document registered for this fingerprint")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
		default:
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up document")
		}
	}

	content, err := s.blobs.Get(ctx, record.StorageLocator)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "archived document missing",
					"fingerprint", fp.Hex(),
					"locator", record.StorageLocator,
				)
			}
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "archived document is not available")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read archived document")
	}
	return record, content, nil
}

func validateRequest(req Request) error {
	switch {
	case req.OrganizationID.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "organization id is required")
	case req.SubjectID.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "subject id is required")
	case req.Category == "":
		return dErrors.New(dErrors.CodeInvalidInput, "document category is required")
	case len(req.Content) == 0:
		return dErrors.New(dErrors.CodeInvalidInput, "file content is required")
	}
	return nil
}

// locatorFor derives the archive path from the fingerprint, keeping the
// original extension when one was declared.
func locatorFor(fp fingerprint.Fingerprint, fileName string) string {
	ext := path.Ext(fileName)
	return fp.Hex() + ext
}

func (s *Service) emitIssued(ctx context.Context, record *registrymodels.Record) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Action:         audit.ActionDocumentIssued,
		Timestamp:      requestcontext.Now(ctx),
		Fingerprint:    record.Fingerprint.Hex(),
		OrganizationID: record.OrganizationID.String(),
		SubjectID:      record.SubjectID.String(),
		Category:       string(record.Category),
		RequestID:      requestcontext.RequestID(ctx),
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
