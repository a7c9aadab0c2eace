package handler

import (
	"fmt"

	"github.com/google/uuid"

	"veridoc/internal/identity/models"
	dErrors "veridoc/pkg/domain-errors"
)

// maxBatchSize bounds one resolution request.
const maxBatchSize = 100

// ResolveRequest is the HTTP request body for POST /api/identities/resolve.
type ResolveRequest struct {
	Identities []IdentityRef `json:"identities"`

	parsedRefs []models.Ref
}

// IdentityRef names one identity in the batch.
type IdentityRef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ResolveRequest) Validate() error {
	if len(r.Identities) == 0 {
		return dErrors.New(dErrors.CodeValidation, "identities is required")
	}
	if len(r.Identities) > maxBatchSize {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("identities must contain at most %d entries", maxBatchSize))
	}

	r.parsedRefs = make([]models.Ref, 0, len(r.Identities))
	for i, entry := range r.Identities {
		kind := models.Kind(entry.Kind)
		if kind != models.KindOrganization && kind != models.KindSubject {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("identities[%d].kind must be organization or subject", i))
		}
		parsed, err := uuid.Parse(entry.ID)
		if err != nil || parsed == uuid.Nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("identities[%d].id is not a valid UUID", i))
		}
		r.parsedRefs = append(r.parsedRefs, models.Ref{ID: parsed, Kind: kind})
	}
	return nil
}

// ParsedRefs returns the validated refs.
func (r *ResolveRequest) ParsedRefs() []models.Ref {
	return r.parsedRefs
}

// ResolveResponse is the HTTP response body for POST /api/identities/resolve.
type ResolveResponse struct {
	Resolutions []Resolution `json:"resolutions"`
}

// Resolution reports the outcome for one requested identity, in request
// order.
type Resolution struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	Found       bool              `json:"found"`
	DisplayName string            `json:"displayName,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func fromResolutions(refs []models.Ref, resolved map[models.Ref]*models.IdentityRecord) ResolveResponse {
	out := ResolveResponse{Resolutions: make([]Resolution, 0, len(refs))}
	for _, ref := range refs {
		res := Resolution{ID: ref.ID.String(), Kind: string(ref.Kind)}
		if record := resolved[ref]; record != nil {
			res.Found = true
			res.DisplayName = record.DisplayName
			res.Attributes = record.Attributes
		}
		out.Resolutions = append(out.Resolutions, res)
	}
	return out
}
