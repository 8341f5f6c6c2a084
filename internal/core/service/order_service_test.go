package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	byID          map[string]*domain.Order
	byIdempotency map[string]*domain.Order
	createErr     error // if set, CreateWithAudit fails atomically
	updateErr     error // if set, UpdateStatusWithAudit returns this error
	countErr      error // if set, CountByStatus / CountByDentist fail
	auditInserts  []*domain.AuditLogEntry
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byID:          make(map[string]*domain.Order),
		byIdempotency: make(map[string]*domain.Order),
	}
}

func inScope(o *domain.Order, scope ports.Scope) bool {
	switch {
	case scope.DentistID != "":
		return o.DentistID == scope.DentistID
	case scope.ClinicID != "":
		return o.ClinicID == scope.ClinicID
	case scope.BranchID != "":
		return o.BranchID == scope.BranchID
	}
	return true
}

func (r *stubOrderRepo) CreateWithAudit(_ context.Context, o *domain.Order, entry *domain.AuditLogEntry) error {
	// Order and create entry commit together or not at all, mirroring the
	// real transactional write.
	if r.createErr != nil {
		return r.createErr
	}
	clone := *o
	r.byID[o.ID] = &clone
	if o.IdempotencyKey != "" {
		r.byIdempotency[o.IdempotencyKey] = &clone
	}
	r.auditInserts = append(r.auditInserts, entry)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string, scope ports.Scope) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok || !inScope(o, scope) {
		// Out-of-scope reads as not found (mirrors the real Mongo filter).
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	o, ok := r.byIdempotency[key]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var matched []*domain.Order
	for _, o := range r.byID {
		if !inScope(o, f.Scope) {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.Priority != "" && o.Priority != f.Priority {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubOrderRepo) UpdateStatusWithAudit(_ context.Context, orderID string, expectedFrom, to domain.OrderStatus, entry *domain.AuditLogEntry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.byID[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != expectedFrom {
		return domain.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	r.auditInserts = append(r.auditInserts, entry)
	return nil
}

func (r *stubOrderRepo) AppendAttachment(_ context.Context, orderID string, att domain.Attachment) error {
	o, ok := r.byID[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Attachments = append(o.Attachments, att)
	return nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, scope ports.Scope) ([]ports.StatusCount, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	byStatus := make(map[domain.OrderStatus]int64)
	for _, o := range r.byID {
		if inScope(o, scope) {
			byStatus[o.Status]++
		}
	}
	var counts []ports.StatusCount
	for status, n := range byStatus {
		counts = append(counts, ports.StatusCount{Status: status, Count: n})
	}
	return counts, nil
}

func (r *stubOrderRepo) CountByDentist(_ context.Context, dentistID string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, o := range r.byID {
		if o.DentistID == dentistID {
			n++
		}
	}
	return n, nil
}

type stubAuditRepo struct {
	entries   []*domain.AuditLogEntry
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, entry *domain.AuditLogEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *stubAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*domain.AuditLogEntry, error) {
	var out []*domain.AuditLogEntry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubPatientRepo struct {
	byID map[string]*domain.Patient
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{byID: make(map[string]*domain.Patient)}
}

func patientInScope(p *domain.Patient, scope ports.Scope) bool {
	switch {
	case scope.DentistID != "":
		return p.DentistID == scope.DentistID
	case scope.ClinicID != "":
		return p.ClinicID == scope.ClinicID
	case scope.BranchID != "":
		return p.BranchID == scope.BranchID
	}
	return true
}

func (r *stubPatientRepo) Create(_ context.Context, p *domain.Patient) error {
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, id string, scope ports.Scope) (*domain.Patient, error) {
	p, ok := r.byID[id]
	if !ok || !patientInScope(p, scope) {
		return nil, domain.ErrPatientNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPatientRepo) List(_ context.Context, scope ports.Scope) ([]*domain.Patient, error) {
	var out []*domain.Patient
	for _, p := range r.byID {
		if patientInScope(p, scope) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPatientRepo) CountByClinic(_ context.Context, clinicID string) (int64, error) {
	var n int64
	for _, p := range r.byID {
		if p.ClinicID == clinicID {
			n++
		}
	}
	return n, nil
}

func (r *stubPatientRepo) CountByBranch(_ context.Context, branchID string) (int64, error) {
	var n int64
	for _, p := range r.byID {
		if p.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

type recordingSink struct {
	events []ports.ChangeEvent
}

func (s *recordingSink) Enqueue(event ports.ChangeEvent) {
	s.events = append(s.events, event)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	masterCaller  = ports.ActorContext{ActorID: "master-1", Role: domain.RoleAdminMaster}
	dentistCaller = ports.ActorContext{ActorID: "dentist-1", Role: domain.RoleDentist, BranchID: "branch-a", ClinicID: "clinic-a"}
)

type orderFixture struct {
	orders   *stubOrderRepo
	patients *stubPatientRepo
	sink     *recordingSink
	svc      ports.OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   newStubOrderRepo(),
		patients: newStubPatientRepo(),
		sink:     &recordingSink{},
	}
	f.patients.byID["patient-1"] = &domain.Patient{
		ID: "patient-1", DentistID: "dentist-1", ClinicID: "clinic-a", BranchID: "branch-a", Name: "Maria",
	}
	f.svc = NewOrderService(f.orders, f.patients, f.sink, discardLogger)
	return f
}

func minimalOrderInput() ports.CreateOrderInput {
	return ports.CreateOrderInput{
		Caller:    dentistCaller,
		PatientID: "patient-1",
		Items: []ports.OrderItemInput{{
			ProductName:    "Coroa",
			ProsthesisType: "coroa",
			Material:       "zirconia",
			Color:          "A2",
			SelectedTeeth:  []string{"11"},
			Quantity:       1,
		}},
		Priority: "normal",
	}
}

// ---------------------------------------------------------------------------
// CreateOrder tests
// ---------------------------------------------------------------------------

func TestOrderService_Create_Success(t *testing.T) {
	f := newOrderFixture()

	result, err := f.svc.CreateOrder(context.Background(), minimalOrderInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != string(domain.StatusPedidoSolicitado) {
		t.Errorf("new order status = %q, want %q", result.Status, domain.StatusPedidoSolicitado)
	}
	if result.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for new order")
	}

	stored := f.orders.byID[result.OrderID]
	if stored == nil {
		t.Fatal("order not stored")
	}
	if stored.DentistID != "dentist-1" || stored.ClinicID != "clinic-a" || stored.BranchID != "branch-a" {
		t.Errorf("membership not denormalised onto order: %+v", stored)
	}
}

func TestOrderService_Create_WritesCreateAuditEntry(t *testing.T) {
	f := newOrderFixture()

	result, err := f.svc.CreateOrder(context.Background(), minimalOrderInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.orders.auditInserts) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(f.orders.auditInserts))
	}
	entry := f.orders.auditInserts[0]
	if entry.Action != domain.AuditActionCreate {
		t.Errorf("audit action = %q, want create", entry.Action)
	}
	if entry.EntityID != result.OrderID || entry.EntityType != domain.EntityTypeOrder {
		t.Errorf("audit entity = (%q, %q), want (order, %q)", entry.EntityType, entry.EntityID, result.OrderID)
	}
	if entry.New.Status != domain.StatusPedidoSolicitado {
		t.Errorf("audit new status = %q, want initial", entry.New.Status)
	}
}

func TestOrderService_Create_FailedWriteLeavesNoPartialState(t *testing.T) {
	f := newOrderFixture()
	f.orders.createErr = errors.New("write aborted")

	input := minimalOrderInput()
	input.IdempotencyKey = "key-123"

	if _, err := f.svc.CreateOrder(context.Background(), input); err == nil {
		t.Fatal("expected error when the transactional write fails")
	}
	if len(f.orders.byID) != 0 {
		t.Fatalf("failed create must not leave an order row, got %d", len(f.orders.byID))
	}
	if len(f.orders.auditInserts) != 0 {
		t.Fatalf("failed create must not leave an audit entry, got %d", len(f.orders.auditInserts))
	}

	// A retry with the same key after the outage must build the order from
	// scratch, create entry included: the earlier failure left nothing for
	// the replay branch to latch onto.
	f.orders.createErr = nil
	result, err := f.svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.AlreadyExisted {
		t.Error("retry after a failed create must not report a replay")
	}
	if len(f.orders.auditInserts) != 1 {
		t.Fatalf("retried order must carry exactly 1 create entry, got %d", len(f.orders.auditInserts))
	}
	if f.orders.auditInserts[0].Action != domain.AuditActionCreate {
		t.Errorf("audit action = %q, want create", f.orders.auditInserts[0].Action)
	}
}

func TestOrderService_Create_IdempotentReplay(t *testing.T) {
	f := newOrderFixture()

	input := minimalOrderInput()
	input.IdempotencyKey = "key-123"

	first, err := f.svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := f.svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.OrderID != first.OrderID {
		t.Errorf("replay must return the same order: got %q, want %q", second.OrderID, first.OrderID)
	}
	if !second.AlreadyExisted {
		t.Error("replay must set AlreadyExisted=true")
	}
	if len(f.orders.byID) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(f.orders.byID))
	}
	if len(f.orders.auditInserts) != 1 {
		t.Errorf("replay must not write a second audit entry, got %d", len(f.orders.auditInserts))
	}
}

func TestOrderService_Create_PatientOutOfScope(t *testing.T) {
	f := newOrderFixture()
	// Registered by a different dentist.
	f.patients.byID["patient-2"] = &domain.Patient{ID: "patient-2", DentistID: "dentist-other", ClinicID: "clinic-b"}

	input := minimalOrderInput()
	input.PatientID = "patient-2"

	_, err := f.svc.CreateOrder(context.Background(), input)
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// AdvanceStatus tests
// ---------------------------------------------------------------------------

func seedOrder(f *orderFixture, id string, status domain.OrderStatus) {
	f.orders.byID[id] = &domain.Order{
		ID:        id,
		DentistID: "dentist-1",
		PatientID: "patient-1",
		BranchID:  "branch-a",
		ClinicID:  "clinic-a",
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

func TestOrderService_Advance_WalksWholeChain(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)

	want := []domain.OrderStatus{
		domain.StatusBaixadoVerificado,
		domain.StatusProjetoRealizado,
		domain.StatusProjetoModeloRealizado,
		domain.StatusAguardandoEntrega,
		domain.StatusEntregue,
	}
	for i, next := range want {
		result, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: masterCaller, OrderID: "order-1"})
		if err != nil {
			t.Fatalf("step %d failed: %v", i+1, err)
		}
		if result.To != string(next) {
			t.Fatalf("step %d: advanced to %q, want %q", i+1, result.To, next)
		}
	}

	// A sixth advance must fail: entregue is terminal.
	_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: masterCaller, OrderID: "order-1"})
	if !errors.Is(err, domain.ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus after full chain, got %v", err)
	}

	if len(f.sink.events) != 5 {
		t.Errorf("expected 5 fanout events, got %d", len(f.sink.events))
	}
	if len(f.orders.auditInserts) != 5 {
		t.Errorf("expected 5 transactional audit entries, got %d", len(f.orders.auditInserts))
	}
}

func TestOrderService_Advance_ForbiddenForNonSuperAdmin(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)

	for _, caller := range []ports.ActorContext{
		dentistCaller,
		{ActorID: "fa-1", Role: domain.RoleAdminFilial, BranchID: "branch-a"},
		{ActorID: "ca-1", Role: domain.RoleAdminClinica, ClinicID: "clinic-a"},
	} {
		_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: caller, OrderID: "order-1"})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("role %q: expected ErrForbidden, got %v", caller.Role, err)
		}
	}

	if got := f.orders.byID["order-1"].Status; got != domain.StatusPedidoSolicitado {
		t.Errorf("status must be unchanged after denied attempts, got %q", got)
	}
}

func TestOrderService_Advance_ExpectedStatusConflict(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusProjetoRealizado)

	_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{
		Caller:         masterCaller,
		OrderID:        "order-1",
		ExpectedStatus: string(domain.StatusBaixadoVerificado), // stale read
	})
	if !errors.Is(err, domain.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict on stale expected status, got %v", err)
	}
	if got := f.orders.byID["order-1"].Status; got != domain.StatusProjetoRealizado {
		t.Errorf("status must be unchanged on conflict, got %q", got)
	}
}

func TestOrderService_Advance_CompareAndSetConflict(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)
	f.orders.updateErr = domain.ErrStatusConflict // concurrent writer won the race

	_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: masterCaller, OrderID: "order-1"})
	if !errors.Is(err, domain.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	if len(f.sink.events) != 0 {
		t.Error("no fanout event must be emitted for a failed transition")
	}
}

func TestOrderService_Advance_UnknownStoredStatus(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.OrderStatus("corrupted"))

	_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: masterCaller, OrderID: "order-1"})
	if !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestOrderService_Advance_UnknownOrder(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.AdvanceStatus(context.Background(), ports.AdvanceOrderInput{Caller: masterCaller, OrderID: "missing"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CancelOrder tests
// ---------------------------------------------------------------------------

func TestOrderService_Cancel_FromMidPipeline(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusProjetoModeloRealizado)

	result, err := f.svc.CancelOrder(context.Background(), masterCaller, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.To != string(domain.StatusCancelado) {
		t.Errorf("cancel moved to %q, want cancelado", result.To)
	}
	if got := f.orders.byID["order-1"].Status; got != domain.StatusCancelado {
		t.Errorf("stored status = %q, want cancelado", got)
	}
}

func TestOrderService_Cancel_TerminalRejected(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "delivered", domain.StatusEntregue)
	seedOrder(f, "cancelled", domain.StatusCancelado)

	for _, id := range []string{"delivered", "cancelled"} {
		_, err := f.svc.CancelOrder(context.Background(), masterCaller, id)
		if !errors.Is(err, domain.ErrTerminalStatus) {
			t.Errorf("%s: expected ErrTerminalStatus, got %v", id, err)
		}
	}
}

func TestOrderService_Cancel_ForbiddenForDentist(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)

	_, err := f.svc.CancelOrder(context.Background(), dentistCaller, "order-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Role-gated view tests
// ---------------------------------------------------------------------------

func TestOrderService_Get_NonSuperSeesInitialStatusOnly(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusAguardandoEntrega)

	view, err := f.svc.GetOrder(context.Background(), dentistCaller, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Status != string(domain.StatusPedidoSolicitado) {
		t.Errorf("dentist view status = %q, want initial", view.Status)
	}
	if view.StatusLabel != domain.InitialLabel {
		t.Errorf("dentist view label = %q, want %q", view.StatusLabel, domain.InitialLabel)
	}
	if view.Stage != "pending" {
		t.Errorf("dentist view stage = %q, want pending", view.Stage)
	}
	if view.StatusColor != "blue" {
		t.Errorf("dentist view color = %q, want blue", view.StatusColor)
	}
}

func TestOrderService_Get_SuperAdminSeesTrueStatus(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusAguardandoEntrega)

	view, err := f.svc.GetOrder(context.Background(), masterCaller, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Status != string(domain.StatusAguardandoEntrega) {
		t.Errorf("super view status = %q, want aguardando_entrega", view.Status)
	}
	if view.StatusLabel != "Aguardando Entrega" {
		t.Errorf("super view label = %q", view.StatusLabel)
	}
	if view.Stage != "pronto" {
		t.Errorf("super view stage = %q, want pronto", view.Stage)
	}
}

func TestOrderService_Get_OutOfScopeReadsAsNotFound(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)
	f.orders.byID["order-1"].DentistID = "dentist-other"

	_, err := f.svc.GetOrder(context.Background(), dentistCaller, "order-1")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for out-of-scope order, got %v", err)
	}
}

func TestOrderService_List_ScopedToDentist(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "mine", domain.StatusPedidoSolicitado)
	seedOrder(f, "theirs", domain.StatusPedidoSolicitado)
	f.orders.byID["theirs"].DentistID = "dentist-other"

	result, err := f.svc.ListOrders(context.Background(), ports.ListOrdersInput{Caller: dentistCaller})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 || result.Items[0].ID != "mine" {
		t.Errorf("dentist must only list own orders: total=%d items=%d", result.Total, len(result.Items))
	}
}

func TestOrderService_List_StatusFilterMatchesDisplayedStatusOnly(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusAguardandoEntrega)

	// Filtering by the hidden internal state must not single the order
	// out; the dentist only ever sees it as pedido_solicitado.
	result, err := f.svc.ListOrders(context.Background(), ports.ListOrdersInput{
		Caller: dentistCaller,
		Status: string(domain.StatusAguardandoEntrega),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 0 || result.Total != 0 {
		t.Errorf("hidden-status filter must match nothing for a dentist, got %d items", len(result.Items))
	}

	// Filtering by the status the dentist actually sees returns the order,
	// whatever its stored state.
	result, err = f.svc.ListOrders(context.Background(), ports.ListOrdersInput{
		Caller: dentistCaller,
		Status: string(domain.StatusPedidoSolicitado),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Status != string(domain.StatusPedidoSolicitado) {
		t.Fatalf("displayed-status filter must return the masked order, got %d items", len(result.Items))
	}

	// The super admin filters on stored state as before.
	result, err = f.svc.ListOrders(context.Background(), ports.ListOrdersInput{
		Caller: masterCaller,
		Status: string(domain.StatusAguardandoEntrega),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("super admin stored-status filter must match, got %d items", len(result.Items))
	}
}

func TestOrderService_List_LegacyInlineProsthesisRendersAsItem(t *testing.T) {
	f := newOrderFixture()
	f.orders.byID["legacy"] = &domain.Order{
		ID:             "legacy",
		DentistID:      "dentist-1",
		ProsthesisType: "ponte",
		Material:       "metalo-ceramica",
		Color:          "B1",
		Status:         domain.StatusPedidoSolicitado,
	}

	view, err := f.svc.GetOrder(context.Background(), dentistCaller, "legacy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected legacy fields folded into 1 item, got %d", len(view.Items))
	}
	if view.Items[0].ProsthesisType != "ponte" || view.Items[0].Quantity != 1 {
		t.Errorf("legacy item wrong: %+v", view.Items[0])
	}
}

// ---------------------------------------------------------------------------
// Dashboard tests
// ---------------------------------------------------------------------------

func TestOrderService_Dashboard_SuperGetsBreakdown(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "a", domain.StatusPedidoSolicitado)
	seedOrder(f, "b", domain.StatusEntregue)
	seedOrder(f, "c", domain.StatusEntregue)
	seedOrder(f, "d", domain.StatusCancelado)

	summary, err := f.svc.DashboardSummary(context.Background(), masterCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 4 || summary.Delivered != 2 || summary.Cancelled != 1 {
		t.Errorf("totals wrong: %+v", summary)
	}
	if summary.ByStatus[string(domain.StatusEntregue)] != 2 {
		t.Errorf("breakdown wrong: %v", summary.ByStatus)
	}
}

func TestOrderService_Dashboard_NonSuperGetsTotalOnly(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "a", domain.StatusProjetoRealizado)
	seedOrder(f, "b", domain.StatusEntregue)
	seedOrder(f, "c", domain.StatusCancelado)

	summary, err := f.svc.DashboardSummary(context.Background(), dentistCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ByStatus != nil {
		t.Error("per-status breakdown must be withheld from non-super callers")
	}
	if summary.Delivered != 0 || summary.Cancelled != 0 {
		t.Errorf("delivered/cancelled tallies leak stored state: %+v", summary)
	}
	if summary.Total != 3 {
		t.Errorf("total = %d, want 3", summary.Total)
	}
}

// ---------------------------------------------------------------------------
// Attachment tests
// ---------------------------------------------------------------------------

func TestOrderService_AddAttachment(t *testing.T) {
	f := newOrderFixture()
	seedOrder(f, "order-1", domain.StatusPedidoSolicitado)

	err := f.svc.AddAttachment(context.Background(), ports.AttachmentInput{
		Caller:     dentistCaller,
		OrderID:    "order-1",
		FileName:   "scan.stl",
		StorageKey: "orders/order-1/scan.stl",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	atts := f.orders.byID["order-1"].Attachments
	if len(atts) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(atts))
	}
	if atts[0].UploadedBy != "dentist-1" {
		t.Errorf("uploader = %q, want dentist-1", atts[0].UploadedBy)
	}
	if atts[0].UploadedAt.IsZero() {
		t.Error("upload timestamp must be set")
	}
}
