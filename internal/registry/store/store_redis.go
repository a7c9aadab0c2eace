package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
	id "veridoc/pkg/domain"
	"veridoc/pkg/platform/sentinel"
)

const recordKeyPrefix = "registry:fp:"

// RedisStore is a Redis-backed registry adapter for distributed deployments
// where multiple instances share one record store. SET NX gives the
// append-once guarantee: exactly one of two concurrent identical issuances
// wins, the other observes a conflict.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed registry store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// storedRecord is the JSON persistence shape. Fingerprint lives in the key.
type storedRecord struct {
	OrganizationID  string `json:"organization_id"`
	SubjectID       string `json:"subject_id"`
	Category        string `json:"category"`
	ProvenanceToken string `json:"provenance_token"`
	StorageLocator  string `json:"storage_locator"`
	CreatedAt       string `json:"created_at"`
}

func (s *RedisStore) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (*models.Record, error) {
	raw, err := s.client.Get(ctx, recordKeyPrefix+fp.Hex()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: registry lookup: %w", sentinel.ErrUnavailable, err)
	}

	var stored storedRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode registry record: %w", err)
	}
	return toRecord(fp, stored)
}

func (s *RedisStore) Append(ctx context.Context, record *models.Record) (*models.Receipt, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	stored := storedRecord{
		OrganizationID:  record.OrganizationID.String(),
		SubjectID:       record.SubjectID.String(),
		Category:        string(record.Category),
		ProvenanceToken: record.ProvenanceToken,
		StorageLocator:  record.StorageLocator,
		CreatedAt:       createdAt.UTC().Format(time.RFC3339Nano),
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode registry record: %w", err)
	}

	ok, err := s.client.SetNX(ctx, recordKeyPrefix+record.Fingerprint.Hex(), payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: registry append: %w", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return nil, sentinel.ErrConflict
	}
	return &models.Receipt{
		Fingerprint:     record.Fingerprint,
		ProvenanceToken: record.ProvenanceToken,
		AppendedAt:      createdAt,
	}, nil
}

func toRecord(fp fingerprint.Fingerprint, stored storedRecord) (*models.Record, error) {
	orgUUID, err := uuid.Parse(stored.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("decode organization id: %w", err)
	}
	subjectUUID, err := uuid.Parse(stored.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("decode subject id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode created at: %w", err)
	}
	return &models.Record{
		Fingerprint:     fp,
		OrganizationID:  id.OrganizationID(orgUUID),
		SubjectID:       id.SubjectID(subjectUUID),
		Category:        models.Category(stored.Category),
		ProvenanceToken: stored.ProvenanceToken,
		StorageLocator:  stored.StorageLocator,
		CreatedAt:       createdAt,
	}, nil
}
