package ports

import (
	"context"
	"time"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// DentistSummary is one row of the dentist directory, with the derived
// order count attached.
type DentistSummary struct {
	ID         string
	Name       string
	Email      string
	ClinicID   string
	BranchID   string
	Active     bool
	OrderCount int64
}

// ClinicSummary is one row of the clinic listing with derived member counts.
// Counts default to zero when the auxiliary lookup fails for that row.
type ClinicSummary struct {
	ID           string
	BranchID     string
	Name         string
	Phone        string
	Address      string
	DentistCount int64
	PatientCount int64
	CreatedAt    time.Time
}

// BranchSummary is one row of the branch listing with derived counts.
type BranchSummary struct {
	ID           string
	Name         string
	City         string
	IsMatriz     bool
	DentistCount int64
	PatientCount int64
	CreatedAt    time.Time
}

// CreatePatientInput registers a patient owned by the calling dentist.
type CreatePatientInput struct {
	Caller    ActorContext
	Name      string
	Phone     string
	BirthDate time.Time
}

// DirectoryService exposes the role-scoped administrative listings. Every
// operation constrains its result set to the caller's organizational
// subtree, mirroring the capability table at the data-row level.
type DirectoryService interface {
	ListDentists(ctx context.Context, caller ActorContext) ([]DentistSummary, error)
	ListClinics(ctx context.Context, caller ActorContext) ([]ClinicSummary, error)
	ListBranches(ctx context.Context, caller ActorContext) ([]BranchSummary, error)
	ListPatients(ctx context.Context, caller ActorContext) ([]*domain.Patient, error)
	CreatePatient(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
}

// CatalogService manages the product and shade-color catalogs. Listings are
// open to any authenticated actor; mutations are super-admin only.
type CatalogService interface {
	ListProducts(ctx context.Context, caller ActorContext) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, caller ActorContext, name, category string, materials []string) (*domain.Product, error)
	ListColors(ctx context.Context, caller ActorContext) ([]*domain.ShadeColor, error)
	CreateColor(ctx context.Context, caller ActorContext, code, scale string) (*domain.ShadeColor, error)
}

// NotificationService lists and acknowledges per-actor notifications.
type NotificationService interface {
	ListNotifications(ctx context.Context, caller ActorContext, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, caller ActorContext, notificationID string) error
}
