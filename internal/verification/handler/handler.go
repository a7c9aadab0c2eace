// Package handler exposes document verification over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	identitymodels "veridoc/internal/identity/models"
	"veridoc/internal/verification/models"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

// maxUploadBytes bounds the uploaded document size.
const maxUploadBytes = 10 << 20

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, declaredName string, content io.Reader) *models.Result
	ResolveIdentitiesForBatch(ctx context.Context, refs []identitymodels.Ref) map[identitymodels.Ref]*identitymodels.IdentityRecord
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/docs/verify", h.HandleVerify)
}

// HandleVerify handles POST /api/docs/verify. The document travels as the
// "file" part of a multipart form.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.WarnContext(ctx, "missing or oversized file upload",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusOK, fromResult(&models.Result{
			Valid:   false,
			Message: models.MessageUnreadableFile,
		}))
		return
	}
	defer file.Close()

	result := h.service.Verify(ctx, header.Filename, file)

	h.logger.InfoContext(ctx, "document verified",
		"request_id", requestID,
		"file_name", header.Filename,
		"valid", result.Valid,
		"message", result.Message,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}
