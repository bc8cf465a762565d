package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the user block embedded in the dashboard response.
type UserSummary struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	InvestorType        string    `json:"investorType"`
	InterestedAssets    []string  `json:"interestedAssets"`
	ContentTypes        []string  `json:"contentTypes"`
	CompletedOnboarding bool      `json:"completedOnboarding"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
