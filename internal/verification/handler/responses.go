package handler

import (
	"time"

	identitymodels "veridoc/internal/identity/models"
	registrymodels "veridoc/internal/registry/models"
	"veridoc/internal/verification/models"
)

// VerifyResponse is the HTTP response body for POST /api/docs/verify.
type VerifyResponse struct {
	Valid        bool             `json:"valid"`
	Message      string           `json:"message"`
	Document     *DocumentPayload `json:"document,omitempty"`
	Organization *IdentityPayload `json:"organization,omitempty"`
	Subject      *IdentityPayload `json:"subject,omitempty"`
	Notes        []string         `json:"notes,omitempty"`
}

// DocumentPayload describes the matched registry record.
type DocumentPayload struct {
	Fingerprint string    `json:"fingerprint"`
	Category    string    `json:"category"`
	IssuedAt    time.Time `json:"issuedAt"`
	DownloadURL string    `json:"downloadUrl"`
}

// IdentityPayload describes a resolved identity.
type IdentityPayload struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func fromResult(result *models.Result) VerifyResponse {
	return VerifyResponse{
		Valid:        result.Valid,
		Message:      result.Message,
		Document:     documentPayload(result.Record),
		Organization: identityPayload(result.Organization),
		Subject:      identityPayload(result.Subject),
		Notes:        result.Notes,
	}
}

func documentPayload(record *registrymodels.Record) *DocumentPayload {
	if record == nil {
		return nil
	}
	return &DocumentPayload{
		Fingerprint: record.Fingerprint.Hex(),
		Category:    string(record.Category),
		IssuedAt:    record.CreatedAt,
		DownloadURL: "/api/docs/download/" + record.Fingerprint.Hex(),
	}
}

func identityPayload(record *identitymodels.IdentityRecord) *IdentityPayload {
	if record == nil {
		return nil
	}
	return &IdentityPayload{
		ID:          record.ID.String(),
		DisplayName: record.DisplayName,
		Attributes:  record.Attributes,
	}
}
