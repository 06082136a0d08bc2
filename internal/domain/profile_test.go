package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	profile, err := NewProfile(id, "asha@example.com", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if profile.DisplayName != "asha" {
		t.Errorf("Expected display name derived from email, got %q", profile.DisplayName)
	}

	if profile.CreatedAt.IsZero() || profile.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	profile, err = NewProfile(id, "asha@example.com", "Asha Rao")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.DisplayName != "Asha Rao" {
		t.Errorf("Expected display name %q, got %q", "Asha Rao", profile.DisplayName)
	}

	_, err = NewProfile(uuid.Nil, "asha@example.com", "Asha")
	if err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	_, err = NewProfile(id, "", "Asha")
	if err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	_, err = NewProfile(id, "not-an-email", "Asha")
	if err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}
}
