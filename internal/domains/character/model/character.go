package model

import (
	"time"

	"github.com/google/uuid"
)

// Character is owned by exactly one user. Characters are managed by another
// service; this one only reads them.
type Character struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsOwnedBy reports whether userID owns the character.
func (c *Character) IsOwnedBy(userID uuid.UUID) bool {
	return c != nil && userID != uuid.Nil && c.UserID == userID
}
