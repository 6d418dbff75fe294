package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a user profile owned by the identity service; this service only reads it.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FullName  *string   `json:"full_name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
