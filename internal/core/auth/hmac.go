package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SecretSize is the byte length of generated token secrets.
const SecretSize = 32

// ParseAPIKey extracts token_id and signature from API key format.
// Format: sg-v1-<token_id>-<signature> where token_id is 32 hex chars and
// signature is the 64 hex char HMAC-SHA256 of token_id.
// Returns ErrInvalidKeyFormat if format doesn't match.
func ParseAPIKey(key string) (tokenID, signature string, err error) {
	parts := strings.Split(key, "-")
	if len(parts) != 4 || parts[0] != "sg" || parts[1] != "v1" {
		return "", "", ErrInvalidKeyFormat
	}

	tokenID = parts[2]
	signature = parts[3]
	if len(tokenID) != 32 || len(signature) != 64 {
		return "", "", ErrInvalidKeyFormat
	}

	for _, c := range tokenID + signature {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", "", ErrInvalidKeyFormat
		}
	}

	return tokenID, signature, nil
}

// ComputeHMAC computes HMAC-SHA256 signature of token_id using secret.
func ComputeHMAC(secret []byte, tokenID string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(tokenID))
	return h.Sum(nil)
}

// VerifyHMAC verifies HMAC signature using constant-time comparison.
func VerifyHMAC(expectedHash, computedHash []byte) bool {
	return hmac.Equal(expectedHash, computedHash)
}

// FormatAPIKey constructs the client API key for a token.
func FormatAPIKey(tokenID string, secret []byte) string {
	return fmt.Sprintf("sg-v1-%s-%s", tokenID, hex.EncodeToString(ComputeHMAC(secret, tokenID)))
}

// Token is a freshly generated server-side token.
type Token struct {
	ID     string
	Secret []byte
}

// GenerateToken creates a token with a UUIDv7 id and a random secret.
func GenerateToken() (Token, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate token id: %w", err)
	}
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return Token{}, fmt.Errorf("failed to generate secret: %w", err)
	}
	return Token{ID: strings.ReplaceAll(id.String(), "-", ""), Secret: secret}, nil
}

// EnvValue renders the token in SG_API_TOKEN format.
func (t Token) EnvValue() string {
	return t.ID + ":" + base64.StdEncoding.EncodeToString(t.Secret)
}

// APIKey returns the client key for the token.
func (t Token) APIKey() string {
	return FormatAPIKey(t.ID, t.Secret)
}
