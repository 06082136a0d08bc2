package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token in the identity provider's
	// format. The server itself never issues tokens to clients; this exists
	// for local development tooling and tests.
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims containing user information if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of an access token.
type Claims struct {
	// UserID is parsed from the subject claim.
	UserID uuid.UUID

	Email     string
	Role      string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
