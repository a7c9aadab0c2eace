// Package verification orchestrates the verify flow: fingerprint the
// submitted file, check the registry, and — only on a match — enrich the
// record with organization and subject identities, best effort.
package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veridoc/internal/fingerprint"
	identitymodels "veridoc/internal/identity/models"
	"veridoc/internal/identity/resolver"
	"veridoc/internal/registry"
	registrymodels "veridoc/internal/registry/models"
	verificationmetrics "veridoc/internal/verification/metrics"
	"veridoc/internal/verification/models"
	"veridoc/pkg/platform/audit"
	"veridoc/pkg/platform/audit/publisher"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/requestcontext"
)

const (
	defaultCallTimeout       = 10 * time.Second
	defaultEnrichmentTimeout = 3 * time.Second
)

// Service is the verification orchestrator. The registry client passed in is
// expected to already carry the bounded-retry policy (registry.Retrying).
type Service struct {
	registry          registry.Client
	resolver          *resolver.Resolver
	callTimeout       time.Duration
	enrichmentTimeout time.Duration
	logger            *slog.Logger
	metrics           *verificationmetrics.Metrics
	auditPublisher    publisher.Publisher
	tracer            trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *verificationmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// WithCallTimeout bounds one whole verify call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithEnrichmentTimeout bounds the identity fan-out. Expiry degrades the
// result to nil identity fields; it never fails the verification.
func WithEnrichmentTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enrichmentTimeout = d
		}
	}
}

// New constructs the orchestrator.
func New(registryClient registry.Client, identityResolver *resolver.Resolver, opts ...Option) *Service {
	s := &Service{
		registry:          registryClient,
		resolver:          identityResolver,
		callTimeout:       defaultCallTimeout,
		enrichmentTimeout: defaultEnrichmentTimeout,
		tracer:            otel.Tracer("veridoc/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify drives one verification call to a definite outcome. It always
// completes with a Valid boolean and a human-readable message; failures of
// the enrichment stage are visible only as missing optional fields. Repeated
// verification of the same bytes yields the same Valid/record outcome.
func (s *Service) Verify(ctx context.Context, declaredName string, content io.Reader) *models.Result {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "verification.verify",
		trace.WithAttributes(attribute.String("file.name", declaredName)))
	defer span.End()

	start := time.Now()

	fp, err := fingerprint.Compute(content)
	if err != nil {
		// Terminal: a stream that cannot be read is not retried.
		s.metrics.RecordVerification(verificationmetrics.OutcomeUnreadable, time.Since(start))
		s.emitRejected(ctx, "", verificationmetrics.OutcomeUnreadable, err.Error())
		return &models.Result{Valid: false, Message: models.MessageUnreadableFile}
	}
	span.SetAttributes(attribute.String("fingerprint", fp.Hex()))

	record, err := s.registry.Lookup(ctx, fp)
	if err != nil {
		return s.lookupFailure(ctx, fp, err, start)
	}

	result := s.enrich(ctx, record)

	s.metrics.RecordVerification(verificationmetrics.OutcomeAuthentic, time.Since(start))
	s.emit(ctx, audit.Event{
		Action:         audit.ActionDocumentVerified,
		Fingerprint:    fp.Hex(),
		OrganizationID: record.OrganizationID.String(),
		SubjectID:      record.SubjectID.String(),
		Category:       string(record.Category),
		Outcome:        verificationmetrics.OutcomeAuthentic,
	})
	return result
}

func (s *Service) lookupFailure(ctx context.Context, fp fingerprint.Fingerprint, err error, start time.Time) *models.Result {
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.RecordVerification(verificationmetrics.OutcomeNoRecord, time.Since(start))
		s.emitRejected(ctx, fp.Hex(), verificationmetrics.OutcomeNoRecord, "")
		return &models.Result{Valid: false, Message: models.MessageNoRecord}
	}

	// Anything else counts as the registry being unreachable: a distinct,
	// caller-retryable condition, never "forged".
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "registry lookup failed after retries",
			"fingerprint", fp.Hex(),
			"error", err,
		)
	}
	s.metrics.RecordVerification(verificationmetrics.OutcomeRegistryUnavailable, time.Since(start))
	s.emitRejected(ctx, fp.Hex(), verificationmetrics.OutcomeRegistryUnavailable, err.Error())
	return &models.Result{Valid: false, Message: models.MessageRegistryUnavailable}
}

// enrich resolves both identities concurrently inside a fresh scope and
// assembles the result. The record is already matched, so Valid is true no
// matter how enrichment ends.
func (s *Service) enrich(ctx context.Context, record *registrymodels.Record) *models.Result {
	enrichCtx, cancel := context.WithTimeout(ctx, s.enrichmentTimeout)
	defer cancel()

	orgRef := identitymodels.OrganizationRef(record.OrganizationID)
	subjectRef := identitymodels.SubjectRef(record.SubjectID)

	scope := resolver.NewScope()
	outcomes := s.resolver.ResolveMany(enrichCtx, scope, []identitymodels.Ref{orgRef, subjectRef})

	result := &models.Result{
		Valid:   true,
		Message: models.MessageAuthentic,
		Record:  record,
	}
	if out := outcomes[orgRef]; out.Err == nil && out.Record != nil {
		result.Organization = out.Record
	} else {
		result.Notes = append(result.Notes, models.NoteOrganizationUnavailable)
	}
	if out := outcomes[subjectRef]; out.Err == nil && out.Record != nil {
		result.Subject = out.Record
	} else {
		result.Notes = append(result.Notes, models.NoteSubjectUnavailable)
	}
	return result
}

// ResolveIdentitiesForBatch resolves a batch of identities for list
// rendering. One fresh scope spans the batch; duplicated refs cost one
// directory call, and unresolved refs map to nil.
func (s *Service) ResolveIdentitiesForBatch(ctx context.Context, refs []identitymodels.Ref) map[identitymodels.Ref]*identitymodels.IdentityRecord {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "verification.resolve_batch",
		trace.WithAttributes(attribute.Int("refs", len(refs))))
	defer span.End()

	scope := resolver.NewScope()
	outcomes := s.resolver.ResolveMany(ctx, scope, refs)

	resolved := make(map[identitymodels.Ref]*identitymodels.IdentityRecord, len(outcomes))
	for ref, out := range outcomes {
		if out.Err != nil {
			resolved[ref] = nil
			continue
		}
		resolved[ref] = out.Record
	}
	return resolved
}

func (s *Service) emitRejected(ctx context.Context, fp, outcome, reason string) {
	s.emit(ctx, audit.Event{
		Action:      audit.ActionVerificationRejected,
		Fingerprint: fp,
		Outcome:     outcome,
		Reason:      reason,
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
