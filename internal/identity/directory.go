// Package identity defines the directory surface the enrichment engine reads
// identities from, plus the HTTP adapter for remote directories.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/identity/models"
	"veridoc/pkg/platform/sentinel"
)

// Directory resolves an identity id to its record. One implementation per
// backing service: the organization directory and the subject (student)
// directory.
//
// GetByID returns sentinel.ErrNotFound when the directory has no such
// identity and sentinel.ErrUnavailable on transport or timeout failures.
type Directory interface {
	GetByID(ctx context.Context, identityID uuid.UUID) (*models.IdentityRecord, error)
}

// HTTPDirectory reads identities from a remote directory over HTTP
// (GET {base}/{id}, JSON body).
type HTTPDirectory struct {
	base   *url.URL
	kind   models.Kind
	client *http.Client
}

// NewHTTPDirectory builds a directory client for the given base URL.
func NewHTTPDirectory(baseURL string, kind models.Kind, timeout time.Duration) (*HTTPDirectory, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory URL: %w", err)
	}
	return &HTTPDirectory{
		base:   base,
		kind:   kind,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// directoryPayload is the wire shape both directories share.
type directoryPayload struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Attributes  map[string]string `json:"attributes"`
}

func (d *HTTPDirectory) GetByID(ctx context.Context, identityID uuid.UUID) (*models.IdentityRecord, error) {
	endpoint := d.base.JoinPath(identityID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: directory call: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, sentinel.ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: directory returned %d", sentinel.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("directory returned %d", resp.StatusCode)
	}

	var payload directoryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return &models.IdentityRecord{
		ID:          identityID,
		Kind:        d.kind,
		DisplayName: payload.DisplayName,
		Attributes:  payload.Attributes,
	}, nil
}
