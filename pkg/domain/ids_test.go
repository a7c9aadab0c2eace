package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veridoc/pkg/domain-errors"
)

func TestParseUUIDInvariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseOrganizationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseOrganizationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseOrganizationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		parsed, err := ParseOrganizationID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, OrganizationID(validUUID), parsed)
	})
}

func TestAllIDTypesValidateConsistently(t *testing.T) {
	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		_, errOrg := ParseOrganizationID(input)
		_, errSubject := ParseSubjectID(input)
		assert.Error(t, errOrg, "input %q", input)
		assert.Error(t, errSubject, "input %q", input)
	}

	valid := uuid.NewString()
	_, errOrg := ParseOrganizationID(valid)
	_, errSubject := ParseSubjectID(valid)
	assert.NoError(t, errOrg)
	assert.NoError(t, errSubject)
}

func TestIsZero(t *testing.T) {
	assert.True(t, OrganizationID{}.IsZero())
	assert.True(t, SubjectID{}.IsZero())
	assert.False(t, OrganizationID(uuid.New()).IsZero())
}

func TestStringRoundTrip(t *testing.T) {
	orgID := OrganizationID(uuid.New())
	parsed, err := ParseOrganizationID(orgID.String())
	require.NoError(t, err)
	assert.Equal(t, orgID, parsed)
}
