package domain

import (
	"errors"
	"time"
)

var (
	ErrActorNotFound      = errors.New("actor not found")
	ErrActorExists        = errors.New("actor already exists")
	ErrActorHasOrders     = errors.New("actor still references orders")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Actor is an authenticated identity (profile). Role bounds what the actor
// can see: non-master actors are scoped to their branch/clinic membership,
// dentists to the orders and patients they created themselves.
type Actor struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         Role   `json:"role" bson:"role"`
	BranchID     string `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	ClinicID     string `json:"clinic_id,omitempty" bson:"clinic_id,omitempty"`
	Active       bool   `json:"active" bson:"active"`
	// EmailConfirmed mirrors the auth provider's contact-verification flag.
	EmailConfirmed bool      `json:"email_confirmed" bson:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
