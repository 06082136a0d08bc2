package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile validation errors
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyUserName = errors.New("display name cannot be empty")
)

// Profile is the application-side record of a user authenticated by the
// hosted identity provider. Credentials live with the provider; the profile
// only carries what the application shows about the user.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProfile creates a new Profile for an identity-provider user ID.
// An empty display name falls back to the local part of the email.
func NewProfile(id uuid.UUID, email, displayName string) (*Profile, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		if at := strings.Index(email, "@"); at > 0 {
			displayName = email[:at]
		}
	}

	now := time.Now().UTC()
	profile := &Profile{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if p.Email == "" {
		return ErrEmptyEmail
	}

	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(p.DisplayName) == "" {
		return ErrEmptyUserName
	}

	return nil
}
