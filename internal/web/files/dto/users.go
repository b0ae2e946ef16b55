package dto

import (
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// RegisterRequest is the JSON body of POST /users.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public projection of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUser projects a model user into its public shape.
func NewUser(u *model.User) *User {
	return &User{
		ID:    u.GetID(),
		Email: u.Email,
	}
}

// Token is the success body of GET /connect.
type Token struct {
	Token string `json:"token"`
}

// Status reports backing store reachability.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats reports entity counts plus the thumbnail queue depth gauge.
type Stats struct {
	Users      int64 `json:"users"`
	Files      int64 `json:"files"`
	Thumbnails int64 `json:"thumbnails"`
}
