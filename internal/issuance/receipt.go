package issuance

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	registrymodels "veridoc/internal/registry/models"
)

const receiptIssuer = "veridoc"

// ReceiptSigner mints and verifies signed issuance receipts. The receipt is
// a compact JWT carrying the record's fingerprint and provenance, so an
// issuing organization can hand the holder a portable proof of registration.
type ReceiptSigner struct {
	key []byte
}

// NewReceiptSigner builds a signer around an HS256 key.
func NewReceiptSigner(key string) *ReceiptSigner {
	return &ReceiptSigner{key: []byte(key)}
}

// ReceiptClaims is the decoded content of a signed receipt.
type ReceiptClaims struct {
	Fingerprint     string `json:"fp"`
	OrganizationID  string `json:"org"`
	SubjectID       string `json:"sbj"`
	Category        string `json:"cat"`
	ProvenanceToken string `json:"prv"`
	jwt.RegisteredClaims
}

// Sign produces the signed receipt for an appended record.
func (s *ReceiptSigner) Sign(record *registrymodels.Record, appendedAt time.Time) (string, error) {
	claims := ReceiptClaims{
		Fingerprint:     record.Fingerprint.Hex(),
		OrganizationID:  record.OrganizationID.String(),
		SubjectID:       record.SubjectID.String(),
		Category:        string(record.Category),
		ProvenanceToken: record.ProvenanceToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   receiptIssuer,
			IssuedAt: jwt.NewNumericDate(appendedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return signed, nil
}

// Parse verifies a signed receipt and returns its claims.
func (s *ReceiptSigner) Parse(signed string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(receiptIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}
	return claims, nil
}
