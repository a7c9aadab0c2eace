//go:build integration

package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
	"veridoc/internal/registry/store"
	id "veridoc/pkg/domain"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) record(content string) *models.Record {
	fp, err := fingerprint.Compute(strings.NewReader(content))
	s.Require().NoError(err)
	return &models.Record{
		Fingerprint:     fp,
		OrganizationID:  id.OrganizationID(uuid.New()),
		SubjectID:       id.SubjectID(uuid.New()),
		Category:        models.CategoryAttestation,
		ProvenanceToken: "tx-" + uuid.NewString(),
		StorageLocator:  fp.Hex() + ".pdf",
	}
}

func (s *RedisStoreSuite) TestAppendThenLookup() {
	ctx := context.Background()
	record := s.record("redis round trip")

	receipt, err := s.store.Append(ctx, record)
	s.Require().NoError(err)
	s.Equal(record.Fingerprint, receipt.Fingerprint)

	found, err := s.store.Lookup(ctx, record.Fingerprint)
	s.Require().NoError(err)
	s.Equal(record.OrganizationID, found.OrganizationID)
	s.Equal(record.SubjectID, found.SubjectID)
	s.Equal(record.Category, found.Category)
	s.Equal(record.ProvenanceToken, found.ProvenanceToken)
}

func (s *RedisStoreSuite) TestLookupMissing() {
	fp, err := fingerprint.Compute(strings.NewReader("never appended"))
	s.Require().NoError(err)

	_, err = s.store.Lookup(context.Background(), fp)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDuplicateAppendConflicts() {
	ctx := context.Background()
	record := s.record("appended once to redis")

	_, err := s.store.Append(ctx, record)
	s.Require().NoError(err)

	dup := s.record("appended once to redis")
	dup.ProvenanceToken = "tx-second-attempt"
	_, err = s.store.Append(ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.Lookup(ctx, record.Fingerprint)
	s.Require().NoError(err)
	s.Equal(record.ProvenanceToken, found.ProvenanceToken)
}
