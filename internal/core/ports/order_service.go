package ports

import (
	"context"
	"time"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// ActorContext identifies the authenticated caller for a service operation.
// The transport layer fills it from verified JWT claims; privileged
// operations additionally re-verify against the stored actor row.
type ActorContext struct {
	ActorID  string
	Role     domain.Role
	BranchID string
	ClinicID string
}

// OrderItemInput is one line item of an order submission.
type OrderItemInput struct {
	ProductName    string
	ProsthesisType string
	Material       string
	Color          string
	SelectedTeeth  []string
	Quantity       int
	Observations   string
}

// CreateOrderInput carries all data needed to submit a new order.
type CreateOrderInput struct {
	Caller          ActorContext
	PatientID       string
	Items           []OrderItemInput
	Priority        string
	Deadline        time.Time
	DeliveryAddress string
	Observations    string
	IdempotencyKey  string
}

// CreateOrderResult is returned after submitting an order.
type CreateOrderResult struct {
	OrderID   string
	Status    string
	CreatedAt time.Time
	// AlreadyExisted is true when the Idempotency-Key matched a previous
	// submission.
	AlreadyExisted bool
}

// OrderView is the role-gated detail view of one order. StatusLabel and
// Stage are computed through the status catalog for the requesting viewer,
// so non-super-admin callers never observe internal production sub-states.
type OrderView struct {
	ID              string
	DentistID       string
	PatientID       string
	BranchID        string
	ClinicID        string
	Items           []domain.OrderItem
	Priority        string
	Deadline        time.Time
	DeliveryAddress string
	Observations    string
	Attachments     []domain.Attachment
	Status          string
	StatusLabel     string
	StatusColor     string
	Stage           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListOrdersInput carries parameters for the order list endpoint.
type ListOrdersInput struct {
	Caller   ActorContext
	Status   string
	Priority string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListOrdersResult is a page of role-gated order views.
type ListOrdersResult struct {
	Items      []OrderView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AdvanceOrderInput requests a single-step forward transition.
// ExpectedStatus is the status the caller last observed; the transition is
// rejected with a conflict when the stored status has moved on, so a blind
// retry can never skip a pipeline stage.
type AdvanceOrderInput struct {
	Caller         ActorContext
	OrderID        string
	ExpectedStatus string
}

// TransitionResult reports the applied transition.
type TransitionResult struct {
	OrderID string
	From    string
	To      string
}

// DashboardSummary aggregates order counts for the home screen. ByStatus is
// only populated for super-admin callers; other tiers receive totals alone.
type DashboardSummary struct {
	Total     int64
	Delivered int64
	Cancelled int64
	ByStatus  map[string]int64
}

// AttachmentInput records an external object-storage reference on an order.
type AttachmentInput struct {
	Caller     ActorContext
	OrderID    string
	FileName   string
	StorageKey string
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	GetOrder(ctx context.Context, caller ActorContext, orderID string) (*OrderView, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	// AdvanceStatus moves the order one step along the canonical chain.
	// Super-admin only; terminal and unknown statuses are rejected.
	AdvanceStatus(ctx context.Context, input AdvanceOrderInput) (*TransitionResult, error)
	// CancelOrder moves any non-terminal order to cancelado. Super-admin only.
	CancelOrder(ctx context.Context, caller ActorContext, orderID string) (*TransitionResult, error)
	AddAttachment(ctx context.Context, input AttachmentInput) error
	DashboardSummary(ctx context.Context, caller ActorContext) (*DashboardSummary, error)
}

// TimelineService projects an order's audit log into lifecycle events.
type TimelineService interface {
	// OrderTimeline replays the order's audit entries in creation order.
	// Non-super-admin viewers receive only the initial create event.
	OrderTimeline(ctx context.Context, caller ActorContext, orderID string) ([]domain.TimelineEvent, error)
}
