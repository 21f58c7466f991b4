package v1

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prospera-financas/backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" example:"Maria Souza"`
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"hunter22"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"hunter22"`
}

type ForgotRequest struct {
	Email string `json:"email" example:"maria@example.com"`
}

type ResetRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Token    string `json:"token" example:"b4f13425f7d8..."`
	Password string `json:"password" example:"hunter23"`
}

// User is the API representation of an account. It never contains the
// password hash.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUser(model models.User) User {
	return User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
	}
}

type SessionResponse struct {
	Token string `json:"token"` // Bearer token for the Authorization header
	User  User   `json:"user"`
}

var (
	errRegistrationIncomplete = errors.New("name, email and password must be set")
	errResetIncomplete        = errors.New("email, token and password must be set")
)
