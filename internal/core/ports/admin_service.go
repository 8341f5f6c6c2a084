package ports

import (
	"context"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// CreateBranchInput creates an organizational branch.
type CreateBranchInput struct {
	Caller   ActorContext
	Name     string
	City     string
	IsMatriz bool
}

// CreateClinicInput creates a clinic under an existing branch.
type CreateClinicInput struct {
	Caller   ActorContext
	BranchID string
	Name     string
	Phone    string
	Address  string
}

// CreateActorInput provisions an actor account. Branch/clinic links are
// required for the scoped tiers.
type CreateActorInput struct {
	Caller   ActorContext
	Name     string
	Email    string
	Password string
	Role     string
	BranchID string
	ClinicID string
}

// UpdateActorInput mutates an existing actor's profile fields.
type UpdateActorInput struct {
	Caller  ActorContext
	ActorID string
	Name    string
	Active  *bool // nil leaves the flag unchanged
}

// AccountStatus is one row of the account audit listing.
type AccountStatus struct {
	Actor          domain.Actor
	EmailConfirmed bool
}

// AdminService groups the privileged server-side operations. Each call
// re-verifies the caller's stored role before acting: the JWT claims that
// got the request through the middleware are advisory only.
type AdminService interface {
	CreateBranch(ctx context.Context, input CreateBranchInput) (*domain.Branch, error)
	CreateClinic(ctx context.Context, input CreateClinicInput) (*domain.Clinic, error)
	// CreateActor provisions an account. When an account already exists for
	// the same email, the existing identity is returned instead of failing.
	CreateActor(ctx context.Context, input CreateActorInput) (*domain.Actor, error)
	UpdateActor(ctx context.Context, input UpdateActorInput) (*domain.Actor, error)
	// DeleteActor removes an account. Deletion is blocked while the actor
	// still references orders.
	DeleteActor(ctx context.Context, caller ActorContext, actorID string) error
	ResetPassword(ctx context.Context, caller ActorContext, actorID, newPassword string) error
	ConfirmContact(ctx context.Context, caller ActorContext, actorID string) error
	ListAccounts(ctx context.Context, caller ActorContext) ([]AccountStatus, error)
	// RemoveOrphanAccount deletes an authentication record that has no
	// corresponding actor profile.
	RemoveOrphanAccount(ctx context.Context, caller ActorContext, email string) error
}
