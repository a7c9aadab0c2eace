package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"veridoc/pkg/platform/sentinel"
)

func TestWrapPreservesChain(t *testing.T) {
	err := Wrap(sentinel.ErrUnavailable, CodeUnavailable, "registry unavailable")

	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	assert.True(t, HasCode(err, CodeUnavailable))
	assert.False(t, HasCode(err, CodeConflict))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "never happens"))
}

func TestHasCodeWalksNestedCodes(t *testing.T) {
	inner := New(CodeNotFound, "no record")
	outer := Wrap(fmt.Errorf("lookup: %w", inner), CodeInternal, "verification failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "duplicate")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.status, ToHTTPStatus(tc.code), "code %s", tc.code)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(sentinel.ErrConflict, CodeConflict, "duplicate document")
	assert.Contains(t, err.Error(), "conflict")
	assert.Contains(t, err.Error(), "duplicate document")
}
