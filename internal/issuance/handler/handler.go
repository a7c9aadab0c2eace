// Package handler exposes document issuance over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"

	"veridoc/internal/fingerprint"
	"veridoc/internal/issuance"
	registrymodels "veridoc/internal/registry/models"
	id "veridoc/pkg/domain"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

// maxUploadBytes bounds the uploaded document size.
const maxUploadBytes = 10 << 20

// Service defines the interface for issuance operations.
type Service interface {
	Issue(ctx context.Context, req issuance.Request) (*issuance.Result, error)
	Download(ctx context.Context, fp fingerprint.Fingerprint) (*registrymodels.Record, []byte, error)
}

// Handler wires issuance endpoints to the issuance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an issuance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts issuance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/docs", h.HandleIssue)
	r.Get("/api/docs/download/{fingerprint}", h.HandleDownload)
}

// HandleDownload handles GET /api/docs/download/{fingerprint}, serving the
// archived original of a registered document.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fp, err := fingerprint.ParseHex(chi.URLParam(r, "fingerprint"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "fingerprint is not a valid SHA-256 hex digest"))
		return
	}

	record, content, err := h.service.Download(ctx, fp)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.WarnContext(ctx, "download for unknown document",
				"request_id", requestID,
				"fingerprint", fp.Hex(),
			)
		} else {
			h.logger.ErrorContext(ctx, "download failed",
				"request_id", requestID,
				"fingerprint", fp.Hex(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(record.StorageLocator)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// HandleIssue handles POST /api/docs. The document travels as the "file"
// part of a multipart form alongside organizationId, subjectId, and category
// fields.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	req, err := parseIssueRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid issuance request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Issue(ctx, req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			h.logger.WarnContext(ctx, "issuance rejected",
				"request_id", requestID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "issuance failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document issued",
		"request_id", requestID,
		"fingerprint", result.Record.Fingerprint.Hex(),
		"category", result.Record.Category,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, fromIssueResult(result))
}

func parseIssueRequest(r *http.Request) (issuance.Request, error) {
	orgID, err := id.ParseOrganizationID(r.FormValue("organizationId"))
	if err != nil {
		return issuance.Request{}, err
	}
	subjectID, err := id.ParseSubjectID(r.FormValue("subjectId"))
	if err != nil {
		return issuance.Request{}, err
	}
	category, err := parseCategory(r.FormValue("category"))
	if err != nil {
		return issuance.Request{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return issuance.Request{}, dErrors.New(dErrors.CodeInvalidInput, "file is required")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return issuance.Request{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unreadable file upload")
	}

	return issuance.Request{
		OrganizationID: orgID,
		SubjectID:      subjectID,
		Category:       category,
		FileName:       header.Filename,
		Content:        content,
	}, nil
}

func parseCategory(raw string) (registrymodels.Category, error) {
	switch category := registrymodels.Category(raw); category {
	case registrymodels.CategoryDiploma,
		registrymodels.CategoryTranscript,
		registrymodels.CategoryAttestation,
		registrymodels.CategoryCertification:
		return category, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "category is not recognized")
	}
}

// IssueResponse is the HTTP response body for POST /api/docs.
type IssueResponse struct {
	Fingerprint     string    `json:"fingerprint"`
	Category        string    `json:"category"`
	ProvenanceToken string    `json:"provenanceToken"`
	IssuedAt        time.Time `json:"issuedAt"`
	Receipt         string    `json:"receipt"`
	DownloadURL     string    `json:"downloadUrl"`
}

func fromIssueResult(result *issuance.Result) IssueResponse {
	return IssueResponse{
		Fingerprint:     result.Record.Fingerprint.Hex(),
		Category:        string(result.Record.Category),
		ProvenanceToken: result.Record.ProvenanceToken,
		IssuedAt:        result.Receipt.AppendedAt,
		Receipt:         result.SignedReceipt,
		DownloadURL:     "/api/docs/download/" + result.Record.Fingerprint.Hex(),
	}
}
