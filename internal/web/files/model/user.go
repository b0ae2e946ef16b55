package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that owns file nodes.
type User struct {
	// ID unique identifier for the user
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// Email login account, unique across users
	Email string `bson:"email" json:"email"`
	// Password hashed password digest
	Password string `bson:"password" json:"-"`
	// CreatedAt registration time
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// GetID get id
func (u *User) GetID() string {
	return u.ID.Hex()
}
