package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
	id "veridoc/pkg/domain"
	"veridoc/pkg/platform/sentinel"
)

// PostgresStore persists registry records in PostgreSQL. The unique
// constraint on the fingerprint column enforces append-once; a violation
// surfaces as sentinel.ErrConflict.
//
// Schema:
//
//	CREATE TABLE registry_records (
//	    fingerprint      CHAR(64) PRIMARY KEY,
//	    organization_id  UUID NOT NULL,
//	    subject_id       UUID NOT NULL,
//	    category         TEXT NOT NULL,
//	    provenance_token TEXT NOT NULL,
//	    storage_locator  TEXT NOT NULL,
//	    created_at       TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT organization_id, subject_id, category, provenance_token, storage_locator, created_at
		FROM registry_records
		WHERE fingerprint = $1`,
		fp.Hex(),
	)

	var (
		orgID, subjectID         uuid.UUID
		category, token, locator string
		createdAt                time.Time
	)
	err := row.Scan(&orgID, &subjectID, &category, &token, &locator, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: registry lookup: %w", sentinel.ErrUnavailable, err)
	}

	return &models.Record{
		Fingerprint:     fp,
		OrganizationID:  id.OrganizationID(orgID),
		SubjectID:       id.SubjectID(subjectID),
		Category:        models.Category(category),
		ProvenanceToken: token,
		StorageLocator:  locator,
		CreatedAt:       createdAt,
	}, nil
}

func (s *PostgresStore) Append(ctx context.Context, record *models.Record) (*models.Receipt, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registry_records
			(fingerprint, organization_id, subject_id, category, provenance_token, storage_locator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.Fingerprint.Hex(),
		uuid.UUID(record.OrganizationID),
		uuid.UUID(record.SubjectID),
		string(record.Category),
		record.ProvenanceToken,
		record.StorageLocator,
		createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("%w: registry append: %w", sentinel.ErrUnavailable, err)
	}

	return &models.Receipt{
		Fingerprint:     record.Fingerprint,
		ProvenanceToken: record.ProvenanceToken,
		AppendedAt:      createdAt,
	}, nil
}
