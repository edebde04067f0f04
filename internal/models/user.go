package models

import "time"

// RoleAdmin is the only role the site knows about.
const RoleAdmin = "admin"

// User is a site administrator. PasswordHash never leaves the server.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"_id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
