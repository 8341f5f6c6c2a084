package ports

import (
	"context"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// BranchRepository defines persistence operations for branches.
type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) error
	FindByID(ctx context.Context, id string) (*domain.Branch, error)
	List(ctx context.Context, scope Scope) ([]*domain.Branch, error)
}

// ClinicRepository defines persistence operations for clinics.
type ClinicRepository interface {
	Create(ctx context.Context, c *domain.Clinic) error
	FindByID(ctx context.Context, id string) (*domain.Clinic, error)
	List(ctx context.Context, scope Scope) ([]*domain.Clinic, error)
}

// PatientRepository defines persistence operations for patients.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, id string, scope Scope) (*domain.Patient, error)
	List(ctx context.Context, scope Scope) ([]*domain.Patient, error)
	CountByClinic(ctx context.Context, clinicID string) (int64, error)
	CountByBranch(ctx context.Context, branchID string) (int64, error)
}

// CatalogRepository persists the product and shade-color catalogs.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateColor(ctx context.Context, c *domain.ShadeColor) error
	ListColors(ctx context.Context) ([]*domain.ShadeColor, error)
}

// NotificationRepository persists per-actor notification rows.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, actorID, notificationID string) error
}
