package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/mocks"
	"github.com/kathalab/lesson-api/internal/service/auth"
	"github.com/kathalab/lesson-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	profile, err := domain.NewProfile(uuid.New(), "asha@example.com", "Asha")
	require.NoError(t, err)
	stranger := uuid.New()

	tokens := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: profile.ID}, nil
			case "stranger":
				return &auth.Claims{UserID: stranger}, nil
			case "taken-email":
				return &auth.Claims{UserID: uuid.New(), Email: profile.Email}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	profiles := mocks.NewMockProfileStore(profile)
	authn := auth.NewAuthenticator(tokens, profiles, nil)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token and known profile", token: "good"},
		{name: "blank token", token: "   ", wantErr: auth.ErrMissingToken},
		{name: "invalid token", token: "garbage", wantErr: auth.ErrInvalidToken},
		{name: "expired token", token: "expired", wantErr: auth.ErrExpiredToken},
		{name: "unknown profile without email", token: "stranger", wantErr: auth.ErrUnknownUser},
		{name: "unknown profile with another profile's email", token: "taken-email", wantErr: auth.ErrUnknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := authn.Authenticate(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, profile.ID, got.ID)
			assert.Equal(t, "Asha", got.DisplayName)
		})
	}
}

func TestAuthenticator_CreatesProfileForNewUser(t *testing.T) {
	t.Parallel()

	cfg := config.AuthConfig{
		JWTSecret:            "test-secret-that-is-at-least-32-characters",
		Audience:             "authenticated",
		TokenLifetimeMinutes: 60,
	}
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := tokens.GenerateToken(context.Background(), userID, "ravi.kumar@example.com")
	require.NoError(t, err)

	profiles := mocks.NewMockProfileStore()
	authn := auth.NewAuthenticator(tokens, profiles, nil)

	got, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, "ravi.kumar@example.com", got.Email)
	assert.Equal(t, "ravi.kumar", got.DisplayName)

	stored, err := profiles.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "ravi.kumar", stored.DisplayName)

	again, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
}

func TestAuthenticator_ProfileCreationFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	tokens := &mocks.MockJWTService{Claims: &auth.Claims{UserID: uuid.New(), Email: "new@example.com"}}
	profiles := mocks.NewMockProfileStore()
	profiles.UpsertFn = func(context.Context, *domain.Profile) error { return boom }

	_, err := auth.NewAuthenticator(tokens, profiles, nil).Authenticate(context.Background(), "t")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrUnknownUser)
}

func TestAuthenticator_ProfileStoreFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	tokens := &mocks.MockJWTService{Claims: &auth.Claims{UserID: uuid.New()}}
	profiles := mocks.NewMockProfileStore()
	profiles.GetByIDError = boom

	_, err := auth.NewAuthenticator(tokens, profiles, nil).Authenticate(context.Background(), "t")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrUnknownUser)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestNewAuthenticator_PanicsOnNil(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { auth.NewAuthenticator(nil, mocks.NewMockProfileStore(), nil) })
	assert.Panics(t, func() { auth.NewAuthenticator(&mocks.MockJWTService{}, nil, nil) })
}
