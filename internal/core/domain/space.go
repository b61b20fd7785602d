package domain

import (
	"strings"
	"time"
)

// Space name and description limits.
const (
	MaxSpaceNameLength        = 50
	MaxSpaceDescriptionLength = 500
)

// Space represents a named collection of items owned by one user.
type Space struct {
	// ID is the unique identifier for the space.
	ID string

	// UserID identifies the owning user.
	UserID string

	// Name is the human-readable name, at most MaxSpaceNameLength characters.
	Name string

	// Description is an optional description, at most
	// MaxSpaceDescriptionLength characters.
	Description string

	// CreatedAt is when the space was created.
	CreatedAt time.Time

	// UpdatedAt is when the space was last modified.
	UpdatedAt time.Time
}

// Validate checks the space fields against the documented limits.
func (s *Space) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidInput
	}
	if len(s.Name) > MaxSpaceNameLength {
		return ErrInvalidInput
	}
	if len(s.Description) > MaxSpaceDescriptionLength {
		return ErrInvalidInput
	}
	return nil
}
