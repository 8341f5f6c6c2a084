package ports

import (
	"context"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// AuthService issues tokens for actor accounts. Registration through this
// surface only provisions dentist accounts; admin tiers are created via the
// privileged AdminService path.
type AuthService interface {
	RegisterDentist(ctx context.Context, name, email, password, clinicID string) (*domain.Actor, error)
	Login(ctx context.Context, email, password string) (string, *domain.Actor, error)
}
