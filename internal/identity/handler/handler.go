// Package handler exposes batch identity resolution over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veridoc/internal/identity/models"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

// Service defines the interface for batch identity resolution.
type Service interface {
	ResolveIdentitiesForBatch(ctx context.Context, refs []models.Ref) map[models.Ref]*models.IdentityRecord
}

// Handler wires identity endpoints to the resolution service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/identities/resolve", h.HandleResolve)
}

// HandleResolve handles POST /api/identities/resolve. Resolution is
// best-effort per identity: unresolved entries come back with found=false
// rather than failing the batch.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	refs := req.ParsedRefs()
	resolved := h.service.ResolveIdentitiesForBatch(ctx, refs)

	h.logger.InfoContext(ctx, "identities resolved",
		"request_id", requestID,
		"requested", len(refs),
		"resolved", countResolved(resolved),
	)

	httputil.WriteJSON(w, http.StatusOK, fromResolutions(refs, resolved))
}

func countResolved(resolved map[models.Ref]*models.IdentityRecord) int {
	n := 0
	for _, record := range resolved {
		if record != nil {
			n++
		}
	}
	return n
}
