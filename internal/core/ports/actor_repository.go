package ports

import (
	"context"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// ListActorsFilter constrains actor listings.
type ListActorsFilter struct {
	Scope Scope
	Role  string // optional: filter by role tier
}

// ActorRepository defines persistence operations for actor profiles.
type ActorRepository interface {
	Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error)
	FindByID(ctx context.Context, id string) (*domain.Actor, error)
	FindByEmail(ctx context.Context, email string) (*domain.Actor, error)
	// FindByIDs resolves several actors at once; missing ids are simply
	// absent from the result, never an error.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Actor, error)
	List(ctx context.Context, filter ListActorsFilter) ([]*domain.Actor, error)
	Update(ctx context.Context, a *domain.Actor) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	CountByClinic(ctx context.Context, clinicID string, role domain.Role) (int64, error)
	CountByBranch(ctx context.Context, branchID string, role domain.Role) (int64, error)
}
