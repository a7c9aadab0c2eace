// Package fingerprint computes deterministic content digests used as registry
// lookup keys. Equal byte streams always produce equal fingerprints.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"veridoc/pkg/platform/sentinel"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Fingerprint is a SHA-256 content digest. The hex form is the wire and
// storage representation (64 characters).
type Fingerprint [Size]byte

// Compute digests the stream. Input is processed incrementally, so file size
// is bounded only by the caller's storage, never by an in-core buffer.
// The only failure mode is a stream that cannot be fully read.
func Compute(r io.Reader) (Fingerprint, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %w", sentinel.ErrUnreadable, err)
	}
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// Hex returns the lowercase hex encoding of the digest.
func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}

func (fp Fingerprint) String() string { return fp.Hex() }

// IsZero reports whether the fingerprint is the zero value, which no real
// content produces in practice.
func (fp Fingerprint) IsZero() bool {
	return fp == Fingerprint{}
}

// ParseHex decodes a 64-character hex digest.
func ParseHex(s string) (Fingerprint, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("decode fingerprint: %w", err)
	}
	if len(b) != Size {
		return Fingerprint{}, fmt.Errorf("fingerprint must be %d bytes, got %d", Size, len(b))
	}
	var fp Fingerprint
	copy(fp[:], b)
	return fp, nil
}
