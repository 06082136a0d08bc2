package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/store"
)

// Authenticator turns a bearer token into the caller's profile.
type Authenticator struct {
	tokens   JWTService
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator. It panics on nil collaborators.
func NewAuthenticator(tokens JWTService, profiles store.ProfileStore, logger *slog.Logger) *Authenticator {
	if tokens == nil {
		panic("tokens cannot be nil")
	}
	if profiles == nil {
		panic("profiles cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		tokens:   tokens,
		profiles: profiles,
		logger:   logger.With(slog.String("component", "authenticator")),
	}
}

// Authenticate verifies token and loads the profile of its subject. The
// first request of a new identity-provider user creates the profile from
// the token's email claim, with the email's local part as display name.
//
// Errors:
//   - ErrMissingToken when token is blank
//   - ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid when verification fails
//   - ErrUnknownUser when the subject has no profile and none can be created
//     from the claims (missing or invalid email, email owned by another profile)
//   - any other profile store error, wrapped
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := a.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return a.provision(ctx, log, claims)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return profile, nil
}

// provision creates the profile for a verified subject seen for the first time.
func (a *Authenticator) provision(ctx context.Context, log *slog.Logger, claims *Claims) (*domain.Profile, error) {
	log = log.With(slog.String("user_id", claims.UserID.String()))

	profile, err := domain.NewProfile(claims.UserID, claims.Email, "")
	if err != nil {
		log.Warn("verified token for unknown user cannot create a profile", slog.String("reason", err.Error()))
		return nil, ErrUnknownUser
	}

	if err := a.profiles.Upsert(ctx, profile); err != nil {
		if store.IsDuplicateError(err) {
			log.Warn("verified token email belongs to another profile")
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	log.Info("profile created for new user")
	return profile, nil
}
