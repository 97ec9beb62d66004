// Package auth provides HMAC-based API key authentication for gRPC services.
package auth

import (
	"context"
	"encoding/hex"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

// tokenIDKey is the context key for storing the authenticated token ID.
const tokenIDKey = contextKey("token_id")

// healthPrefix marks methods served without authentication.
const healthPrefix = "/grpc.health.v1.Health/"

// Authenticator validates API keys against token secrets.
// Keys are stateless: the signature is recomputed from the secret on each call.
type Authenticator struct {
	secrets map[string][]byte
}

// NewAuthenticator creates an authenticator over token_id -> secret.
func NewAuthenticator(secrets map[string][]byte) *Authenticator {
	return &Authenticator{secrets: secrets}
}

// Authenticate validates API key and returns token_id on success.
func (a *Authenticator) Authenticate(apiKey string) (string, error) {
	tokenID, signature, err := ParseAPIKey(apiKey)
	if err != nil {
		return "", err
	}

	secret, ok := a.secrets[tokenID]
	if !ok {
		return "", ErrUnknownKey
	}

	presented, err := hex.DecodeString(signature)
	if err != nil {
		return "", ErrInvalidKeyFormat
	}
	if !VerifyHMAC(ComputeHMAC(secret, tokenID), presented) {
		return "", ErrInvalidKey
	}

	return tokenID, nil
}

// UnaryInterceptor returns gRPC interceptor that authenticates requests.
// Health checks pass through unauthenticated.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if strings.HasPrefix(info.FullMethod, healthPrefix) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		apiKeys := md.Get("x-api-key")
		if len(apiKeys) == 0 {
			return nil, status.Error(codes.Unauthenticated, ErrMissingKey.Error())
		}

		tokenID, err := a.Authenticate(apiKeys[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, tokenIDKey, tokenID)
		return handler(ctx, req)
	}
}

// TokenIDFromContext extracts the authenticated token ID from context.
// Returns empty string if not found.
func TokenIDFromContext(ctx context.Context) string {
	if tokenID, ok := ctx.Value(tokenIDKey).(string); ok {
		return tokenID
	}
	return ""
}
