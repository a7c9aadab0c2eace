package issuance_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/fingerprint"
	"veridoc/internal/issuance"
	"veridoc/internal/registry/models"
	id "veridoc/pkg/domain"
)

func sampleRecord(t *testing.T) *models.Record {
	t.Helper()
	fp, err := fingerprint.Compute(strings.NewReader("receipt test content"))
	require.NoError(t, err)
	return &models.Record{
		Fingerprint:     fp,
		OrganizationID:  id.OrganizationID(uuid.New()),
		SubjectID:       id.SubjectID(uuid.New()),
		Category:        models.CategoryTranscript,
		ProvenanceToken: "tx-abc123",
	}
}

func TestReceiptSignParseRoundTrip(t *testing.T) {
	signer := issuance.NewReceiptSigner("receipt-key")
	record := sampleRecord(t)
	appendedAt := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

	signed, err := signer.Sign(record, appendedAt)
	require.NoError(t, err)

	claims, err := signer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, record.Fingerprint.Hex(), claims.Fingerprint)
	assert.Equal(t, record.OrganizationID.String(), claims.OrganizationID)
	assert.Equal(t, record.SubjectID.String(), claims.SubjectID)
	assert.Equal(t, string(models.CategoryTranscript), claims.Category)
	assert.Equal(t, "tx-abc123", claims.ProvenanceToken)
	assert.Equal(t, appendedAt.Unix(), claims.IssuedAt.Unix())
}

func TestReceiptRejectsWrongKey(t *testing.T) {
	signed, err := issuance.NewReceiptSigner("key-one").Sign(sampleRecord(t), time.Now())
	require.NoError(t, err)

	_, err = issuance.NewReceiptSigner("key-two").Parse(signed)
	assert.Error(t, err)
}

func TestReceiptRejectsTamperedToken(t *testing.T) {
	signer := issuance.NewReceiptSigner("receipt-key")
	signed, err := signer.Sign(sampleRecord(t), time.Now())
	require.NoError(t, err)

	_, err = signer.Parse(signed + "x")
	assert.Error(t, err)
}
