package fingerprint

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/pkg/platform/sentinel"
)

func TestCompute_Deterministic(t *testing.T) {
	content := []byte("attestation de scolarite 2025")

	fp1, err := Compute(bytes.NewReader(content))
	require.NoError(t, err)
	fp2, err := Compute(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "equal inputs must produce equal fingerprints")
}

func TestCompute_DistinctInputs(t *testing.T) {
	fp1, err := Compute(strings.NewReader("document a"))
	require.NoError(t, err)
	fp2, err := Compute(strings.NewReader("document b"))
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
}

func TestCompute_StreamsLargeInput(t *testing.T) {
	// 8 MiB from a repeating pattern; Compute must not require the whole
	// input in memory, only the io.Reader contract.
	pattern := bytes.Repeat([]byte("0123456789abcdef"), 64)
	large := io.MultiReader(
		io.LimitReader(repeatReader{pattern}, 8<<20),
	)

	fp, err := Compute(large)
	require.NoError(t, err)
	assert.False(t, fp.IsZero())
}

func TestCompute_UnreadableStream(t *testing.T) {
	_, err := Compute(failingReader{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnreadable)
}

func TestCompute_Concurrent(t *testing.T) {
	content := []byte("concurrent fingerprinting")
	want, err := Compute(bytes.NewReader(content))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Compute(bytes.NewReader(content))
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestHexRoundTrip(t *testing.T) {
	fp, err := Compute(strings.NewReader("diplome"))
	require.NoError(t, err)

	require.Len(t, fp.Hex(), 64)
	parsed, err := ParseHex(fp.Hex())
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)
}

func TestParseHex_Invalid(t *testing.T) {
	t.Run("not hex", func(t *testing.T) {
		_, err := ParseHex("zz")
		assert.Error(t, err)
	})
	t.Run("wrong length", func(t *testing.T) {
		_, err := ParseHex("abcd")
		assert.Error(t, err)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk error")
}

// repeatReader yields its pattern forever; callers bound it with LimitReader.
type repeatReader struct{ pattern []byte }

func (r repeatReader) Read(p []byte) (int, error) {
	n := copy(p, r.pattern)
	return n, nil
}
