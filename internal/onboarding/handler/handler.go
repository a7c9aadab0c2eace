// Package handler exposes organization registration over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veridoc/internal/onboarding"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

// Handler validates and accepts organization registrations.
type Handler struct {
	logger *slog.Logger
}

// New constructs an onboarding handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts onboarding endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/orgs/register", h.HandleRegister)
}

// RegisterResponse is the HTTP response body for a successful registration.
type RegisterResponse struct {
	OrganizationID string `json:"organizationId"`
	OrgType        string `json:"orgType"`
	Name           string `json:"name"`
}

// validationResponse carries the full field error list so a form can render
// every problem at once.
type validationResponse struct {
	Error       string                  `json:"error"`
	FieldErrors []onboarding.FieldError `json:"fieldErrors"`
}

// HandleRegister handles POST /api/orgs/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req onboarding.OrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if fieldErrors := onboarding.Validate(&req); len(fieldErrors) > 0 {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", requestID,
			"org_type", req.OrgType,
			"field_errors", len(fieldErrors),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:       string(dErrors.CodeValidation),
			FieldErrors: fieldErrors,
		})
		return
	}

	organizationID := uuid.NewString()
	h.logger.InfoContext(ctx, "organization registered",
		"request_id", requestID,
		"organization_id", organizationID,
		"org_type", req.OrgType,
	)

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		OrganizationID: organizationID,
		OrgType:        string(req.OrgType),
		Name:           req.Name,
	})
}
