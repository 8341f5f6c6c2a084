package ports

import (
	"context"
	"time"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// Scope constrains a list query to the rows visible to the acting role.
// Exactly one of the non-empty fields applies; all empty means unscoped
// (super admin). The repository layer translates these into equality
// predicates; the service layer is the only place that builds a Scope from
// a role.
type Scope struct {
	BranchID  string // admin_filial: rows in own branch
	ClinicID  string // admin_clinica: rows in own clinic
	DentistID string // dentist: own rows only
}

// Unscoped reports whether the scope places no constraint on the query.
func (s Scope) Unscoped() bool {
	return s.BranchID == "" && s.ClinicID == "" && s.DentistID == ""
}

// ScopeFor derives the row-visibility scope from the caller's role: the
// super admin is unscoped, branch admins see their own branch, clinic
// admins their own clinic, and dentists only rows they created themselves.
// This is the one place a query scope is built from a role.
func ScopeFor(caller ActorContext) Scope {
	switch caller.Role {
	case domain.RoleAdminMaster:
		return Scope{}
	case domain.RoleAdminFilial:
		return Scope{BranchID: caller.BranchID}
	case domain.RoleAdminClinica:
		return Scope{ClinicID: caller.ClinicID}
	default:
		return Scope{DentistID: caller.ActorID}
	}
}

// ListOrdersFilter carries query parameters for listing orders. Scope is
// always set by the service layer from the caller's role.
type ListOrdersFilter struct {
	Scope    Scope
	Status   string    // optional: filter by canonical status
	Priority string    // optional
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	Page     int       // 1-based
	Limit    int       // capped at 100 by the service
}

// StatusCount pairs a canonical status with the number of orders in it.
type StatusCount struct {
	Status domain.OrderStatus
	Count  int64
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// CreateWithAudit inserts the order and its create audit entry in one
	// transaction; neither is applied without the other. A failure leaves
	// no partial state, so a client retry starts clean.
	CreateWithAudit(ctx context.Context, o *domain.Order, entry *domain.AuditLogEntry) error
	// FindByID retrieves an order. A non-empty scope narrows the lookup so
	// out-of-scope orders read as not found.
	FindByID(ctx context.Context, id string, scope Scope) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// UpdateStatusWithAudit sets the order's status and appends the audit
	// entry in one transaction; neither is applied without the other. The
	// update is a compare-and-set against expectedFrom: if the stored
	// status no longer matches, domain.ErrStatusConflict is returned.
	UpdateStatusWithAudit(ctx context.Context, orderID string, expectedFrom, to domain.OrderStatus, entry *domain.AuditLogEntry) error
	AppendAttachment(ctx context.Context, orderID string, att domain.Attachment) error
	CountByStatus(ctx context.Context, scope Scope) ([]StatusCount, error)
	CountByDentist(ctx context.Context, dentistID string) (int64, error)
}

// AuditRepository persists and replays the append-only audit log.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLogEntry) error
	// ListByEntity returns all entries for one entity ordered by creation
	// time ascending. The ordering is load-bearing for the projector.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditLogEntry, error)
}
