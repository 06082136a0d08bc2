package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/api/shared"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/redact"
	"github.com/kathalab/lesson-api/internal/service/auth"
)

// Authenticator resolves a bearer token to the caller's profile.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Profile, error)
}

var _ Authenticator = (*auth.Authenticator)(nil)

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator, logger *slog.Logger) *AuthMiddleware {
	if authenticator == nil {
		panic("authenticator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate checks the bearer token from the Authorization header and
// adds the user ID to the request context for authorized requests.
// A missing or blank bearer answers 401 "Token required"; any other failure
// answers 401 "Invalid user".
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token required")
			return
		}

		profile, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token required")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrUnknownUser):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid user", err,
					shared.WithElevatedLogLevel())
			default:
				log.Error("failed to authenticate request", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, profile.ID)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", profile.ID.String())))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
