// Package resolver turns (id, kind) pairs into identity records via the
// backing directories, memoizing outcomes in a per-operation scope.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"veridoc/internal/identity"
	identitymetrics "veridoc/internal/identity/metrics"
	"veridoc/internal/identity/models"
)

// Outcome is the per-ref result of a resolution: either a record or the
// error that prevented one. Failed outcomes are cached like successes so a
// repeat lookup within the scope never re-issues the network call.
type Outcome struct {
	Record *models.IdentityRecord
	Err    error
}

type scopeEntry struct {
	outcome    Outcome
	resolvedAt time.Time
}

// Scope is the enrichment cache for one orchestrated operation: a single
// verification call or a single batch render. It is discarded at the end of
// that operation; identity data can change, and staleness must not outlive
// the operation the cache was built for.
type Scope struct {
	mu      sync.Mutex
	entries map[models.Ref]scopeEntry
	flight  singleflight.Group
}

// NewScope creates an empty enrichment scope.
func NewScope() *Scope {
	return &Scope{entries: make(map[models.Ref]scopeEntry)}
}

func (s *Scope) get(ref models.Ref) (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[ref]
	return entry.outcome, ok
}

func (s *Scope) put(ref models.Ref, out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ref] = scopeEntry{outcome: out, resolvedAt: time.Now()}
}

// Len reports the number of cached outcomes. Test helper.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Resolver fans identity lookups out to the organization and subject
// directories with a fixed concurrency ceiling.
type Resolver struct {
	organizations identity.Directory
	subjects      identity.Directory
	concurrency   int
	callTimeout   time.Duration
	logger        *slog.Logger
	metrics       *identitymetrics.Metrics
	tracer        trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithConcurrency sets the ceiling on in-flight directory calls per
// ResolveMany. Values below 1 fall back to the default.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n >= 1 {
			r.concurrency = n
		}
	}
}

// WithCallTimeout bounds a single directory call.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

const (
	defaultConcurrency = 8
	defaultCallTimeout = 2 * time.Second
)

// New constructs a Resolver over the two directories.
func New(organizations, subjects identity.Directory, opts ...Option) *Resolver {
	r := &Resolver{
		organizations: organizations,
		subjects:      subjects,
		concurrency:   defaultConcurrency,
		callTimeout:   defaultCallTimeout,
		tracer:        otel.Tracer("veridoc/identity/resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveMany resolves every requested ref, deduplicating repeats and
// collapsing concurrent lookups for the same ref into one directory call.
// Individual failures never abort sibling resolutions; each ref gets its own
// Outcome. The scope's cache answers repeats without further network calls,
// failures included.
func (r *Resolver) ResolveMany(ctx context.Context, scope *Scope, refs []models.Ref) map[models.Ref]Outcome {
	ctx, span := r.tracer.Start(ctx, "identity.resolve_many",
		trace.WithAttributes(attribute.Int("refs.requested", len(refs))))
	defer span.End()

	unique := dedupe(refs)
	span.SetAttributes(attribute.Int("refs.unique", len(unique)))

	results := make(map[models.Ref]Outcome, len(unique))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, ref := range unique {
		g.Go(func() error {
			out := r.resolveOne(gctx, scope, ref)
			mu.Lock()
			results[ref] = out
			mu.Unlock()
			// Partial failure contract: sibling resolutions continue.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Resolver) resolveOne(ctx context.Context, scope *Scope, ref models.Ref) Outcome {
	if out, ok := scope.get(ref); ok {
		r.metrics.RecordHit(string(ref.Kind))
		return out
	}

	v, _, _ := scope.flight.Do(ref.Key(), func() (any, error) {
		// Re-check under the flight: another caller may have populated the
		// entry between our cache miss and winning the flight.
		if out, ok := scope.get(ref); ok {
			return out, nil
		}
		r.metrics.RecordMiss(string(ref.Kind))
		out := r.fetch(ctx, ref)
		scope.put(ref, out)
		return out, nil
	})
	return v.(Outcome)
}

func (r *Resolver) fetch(ctx context.Context, ref models.Ref) Outcome {
	dir, err := r.directoryFor(ref.Kind)
	if err != nil {
		return Outcome{Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	start := time.Now()
	record, err := dir.GetByID(callCtx, ref.ID)
	r.metrics.ObserveResolution(string(ref.Kind), time.Since(start), err != nil)

	if err != nil {
		if r.logger != nil {
			r.logger.DebugContext(ctx, "identity resolution failed",
				"identity_id", ref.ID,
				"kind", ref.Kind,
				"error", err,
			)
		}
		return Outcome{Err: err}
	}
	return Outcome{Record: record}
}

func (r *Resolver) directoryFor(kind models.Kind) (identity.Directory, error) {
	switch kind {
	case models.KindOrganization:
		return r.organizations, nil
	case models.KindSubject:
		return r.subjects, nil
	default:
		return nil, fmt.Errorf("unknown identity kind %q", kind)
	}
}

func dedupe(refs []models.Ref) []models.Ref {
	seen := make(map[models.Ref]struct{}, len(refs))
	out := make([]models.Ref, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
