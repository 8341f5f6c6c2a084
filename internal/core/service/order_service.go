package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

const maxPageLimit = 100

// ChangeSink receives committed transitions for asynchronous fanout.
// Implemented by the sharded dispatcher; a no-op sink is fine in tests.
type ChangeSink interface {
	Enqueue(event ports.ChangeEvent)
}

type orderService struct {
	orders   ports.OrderRepository
	patients ports.PatientRepository
	sink     ChangeSink
	log      zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(
	orders ports.OrderRepository,
	patients ports.PatientRepository,
	sink ChangeSink,
	log zerolog.Logger,
) ports.OrderService {
	return &orderService{
		orders:   orders,
		patients: patients,
		sink:     sink,
		log:      log,
	}
}

// CreateOrder submits a new order in the initial pipeline state. If an
// idempotency key is provided and already seen, the previously created
// order is returned without side effects.
func (s *orderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
			return &ports.CreateOrderResult{
				OrderID:        existing.ID,
				Status:         string(existing.Status),
				CreatedAt:      existing.CreatedAt,
				AlreadyExisted: true,
			}, nil
		}
	}

	// The patient must be visible to the caller; a dentist can only order
	// for patients it registered itself.
	if _, err := s.patients.FindByID(ctx, input.PatientID, ports.ScopeFor(input.Caller)); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.NewString(),
		DentistID:       input.Caller.ActorID,
		PatientID:       input.PatientID,
		BranchID:        input.Caller.BranchID,
		ClinicID:        input.Caller.ClinicID,
		Items:           itemsFromInput(input.Items),
		Priority:        input.Priority,
		Deadline:        input.Deadline,
		DeliveryAddress: input.DeliveryAddress,
		Observations:    input.Observations,
		Status:          domain.StatusPedidoSolicitado,
		IdempotencyKey:  input.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The create audit entry seeds the timeline. It commits in the same
	// transaction as the order row: an order persisting without it would
	// leave the timeline permanently empty after an idempotent retry.
	entry := &domain.AuditLogEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityTypeOrder,
		EntityID:   order.ID,
		Action:     domain.AuditActionCreate,
		ActorID:    input.Caller.ActorID,
		New:        domain.AuditSnapshot{Status: order.Status},
		CreatedAt:  now,
	}
	if err := s.orders.CreateWithAudit(ctx, order, entry); err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Str("dentist_id", order.DentistID).Msg("order created")

	return &ports.CreateOrderResult{
		OrderID:   order.ID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}, nil
}

// GetOrder returns the role-gated view of one order. Out-of-scope orders
// read as not found rather than forbidden, so existence is not leaked.
func (s *orderService) GetOrder(ctx context.Context, caller ports.ActorContext, orderID string) (*ports.OrderView, error) {
	order, err := s.orders.FindByID(ctx, orderID, ports.ScopeFor(caller))
	if err != nil {
		return nil, err
	}
	view := s.viewFor(order, caller)
	return &view, nil
}

func (s *orderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}

	// The status filter matches the status the caller can SEE, never the
	// stored one. Non-super viewers see every order as pedido_solicitado,
	// so filtering by a hidden internal state must not reveal which rows
	// are in it: it simply matches nothing.
	status := input.Status
	if !domain.IsSuperAdmin(input.Caller.Role) {
		switch status {
		case "", string(domain.StatusPedidoSolicitado):
			status = ""
		default:
			return &ports.ListOrdersResult{
				Items: []ports.OrderView{},
				Page:  page,
				Limit: limit,
			}, nil
		}
	}

	orders, total, err := s.orders.List(ctx, ports.ListOrdersFilter{
		Scope:    ports.ScopeFor(input.Caller),
		Status:   status,
		Priority: input.Priority,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ports.OrderView, 0, len(orders))
	for _, o := range orders {
		items = append(items, s.viewFor(o, input.Caller))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// AdvanceStatus moves an order one step along the canonical chain. The
// status write and the audit append commit together; the expected-status
// guard turns stale retries into conflicts instead of double advances.
func (s *orderService) AdvanceStatus(ctx context.Context, input ports.AdvanceOrderInput) (*ports.TransitionResult, error) {
	if !domain.CanChangeStatus(domain.IsSuperAdmin(input.Caller.Role)) {
		return nil, fmt.Errorf("advance status: %w", domain.ErrForbidden)
	}

	order, err := s.orders.FindByID(ctx, input.OrderID, ports.Scope{})
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !from.IsValid() {
		return nil, fmt.Errorf("advance status: %q: %w", from, domain.ErrUnknownStatus)
	}
	if input.ExpectedStatus != "" && input.ExpectedStatus != string(from) {
		return nil, fmt.Errorf("advance status: expected %s, stored %s: %w", input.ExpectedStatus, from, domain.ErrStatusConflict)
	}

	to, ok := from.Next()
	if !ok {
		return nil, fmt.Errorf("advance status: %s: %w", from, domain.ErrTerminalStatus)
	}

	return s.transition(ctx, input.Caller, order, from, to)
}

// CancelOrder moves a non-terminal order to cancelado. This is the only
// path off the forward chain.
func (s *orderService) CancelOrder(ctx context.Context, caller ports.ActorContext, orderID string) (*ports.TransitionResult, error) {
	if !domain.CanChangeStatus(domain.IsSuperAdmin(caller.Role)) {
		return nil, fmt.Errorf("cancel order: %w", domain.ErrForbidden)
	}

	order, err := s.orders.FindByID(ctx, orderID, ports.Scope{})
	if err != nil {
		return nil, err
	}

	if !order.Status.CanCancel() {
		return nil, fmt.Errorf("cancel order: %s: %w", order.Status, domain.ErrTerminalStatus)
	}

	return s.transition(ctx, caller, order, order.Status, domain.StatusCancelado)
}

func (s *orderService) transition(ctx context.Context, caller ports.ActorContext, order *domain.Order, from, to domain.OrderStatus) (*ports.TransitionResult, error) {
	now := time.Now().UTC()
	entry := &domain.AuditLogEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityTypeOrder,
		EntityID:   order.ID,
		Action:     domain.AuditActionUpdate,
		ActorID:    caller.ActorID,
		Old:        domain.AuditSnapshot{Status: from},
		New:        domain.AuditSnapshot{Status: to},
		CreatedAt:  now,
	}

	if err := s.orders.UpdateStatusWithAudit(ctx, order.ID, from, to, entry); err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Str("from", string(from)).Str("to", string(to)).Msg("transition failed")
		return nil, err
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor_id", caller.ActorID).
		Msg("status advanced")

	if s.sink != nil {
		s.sink.Enqueue(ports.ChangeEvent{
			EntryID:    entry.ID,
			OrderID:    order.ID,
			DentistID:  order.DentistID,
			ActorID:    caller.ActorID,
			From:       from,
			To:         to,
			OccurredAt: now,
		})
	}

	return &ports.TransitionResult{OrderID: order.ID, From: string(from), To: string(to)}, nil
}

// AddAttachment records an external object-storage reference on the order.
func (s *orderService) AddAttachment(ctx context.Context, input ports.AttachmentInput) error {
	order, err := s.orders.FindByID(ctx, input.OrderID, ports.ScopeFor(input.Caller))
	if err != nil {
		return err
	}

	return s.orders.AppendAttachment(ctx, order.ID, domain.Attachment{
		FileName:   input.FileName,
		StorageKey: input.StorageKey,
		UploadedBy: input.Caller.ActorID,
		UploadedAt: time.Now().UTC(),
	})
}

// DashboardSummary aggregates scoped order counts. Everything beyond the
// scoped total is withheld from non-super-admin callers: the per-status
// breakdown and even the delivered/cancelled tallies would leak the
// stored states the label gating hides.
func (s *orderService) DashboardSummary(ctx context.Context, caller ports.ActorContext) (*ports.DashboardSummary, error) {
	counts, err := s.orders.CountByStatus(ctx, ports.ScopeFor(caller))
	if err != nil {
		return nil, err
	}

	summary := &ports.DashboardSummary{}
	super := domain.IsSuperAdmin(caller.Role)
	if super {
		summary.ByStatus = make(map[string]int64, len(counts))
	}
	for _, c := range counts {
		summary.Total += c.Count
		if !super {
			continue
		}
		switch c.Status {
		case domain.StatusEntregue:
			summary.Delivered += c.Count
		case domain.StatusCancelado:
			summary.Cancelled += c.Count
		}
		summary.ByStatus[string(c.Status)] = c.Count
	}
	return summary, nil
}

func (s *orderService) viewFor(o *domain.Order, caller ports.ActorContext) ports.OrderView {
	super := domain.IsSuperAdmin(caller.Role)

	// Status disclosure is role-gated: non-super viewers always see the
	// initial state, both as code and label.
	status := o.Status
	if !super {
		status = domain.StatusPedidoSolicitado
	}

	return ports.OrderView{
		ID:              o.ID,
		DentistID:       o.DentistID,
		PatientID:       o.PatientID,
		BranchID:        o.BranchID,
		ClinicID:        o.ClinicID,
		Items:           itemsWithLegacy(o),
		Priority:        o.Priority,
		Deadline:        o.Deadline,
		DeliveryAddress: o.DeliveryAddress,
		Observations:    o.Observations,
		Attachments:     o.Attachments,
		Status:          string(status),
		StatusLabel:     domain.StatusLabel(o.Status, super),
		StatusColor:     domain.StatusColor(status),
		Stage:           status.Stage(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func itemsFromInput(in []ports.OrderItemInput) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(in))
	for _, it := range in {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, domain.OrderItem{
			ProductName:    it.ProductName,
			ProsthesisType: it.ProsthesisType,
			Material:       it.Material,
			Color:          it.Color,
			SelectedTeeth:  it.SelectedTeeth,
			Quantity:       qty,
			Observations:   it.Observations,
		})
	}
	return items
}

// itemsWithLegacy folds a pre-item-era inline prosthesis description into
// the item list so old records render like new ones.
func itemsWithLegacy(o *domain.Order) []domain.OrderItem {
	if len(o.Items) > 0 {
		return o.Items
	}
	if o.ProsthesisType == "" && o.Material == "" && o.Color == "" {
		return nil
	}
	return []domain.OrderItem{{
		ProsthesisType: o.ProsthesisType,
		Material:       o.Material,
		Color:          o.Color,
		Quantity:       1,
	}}
}
