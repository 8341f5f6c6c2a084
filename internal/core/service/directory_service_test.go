package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Branch / clinic repository stubs
// ---------------------------------------------------------------------------

type stubBranchRepo struct {
	byID map[string]*domain.Branch
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{byID: make(map[string]*domain.Branch)}
}

func (r *stubBranchRepo) Create(_ context.Context, b *domain.Branch) error {
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id string) (*domain.Branch, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBranchNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBranchRepo) List(_ context.Context, scope ports.Scope) ([]*domain.Branch, error) {
	var out []*domain.Branch
	for _, b := range r.byID {
		if scope.BranchID != "" && b.ID != scope.BranchID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

type stubClinicRepo struct {
	byID map[string]*domain.Clinic
}

func newStubClinicRepo() *stubClinicRepo {
	return &stubClinicRepo{byID: make(map[string]*domain.Clinic)}
}

func (r *stubClinicRepo) Create(_ context.Context, c *domain.Clinic) error {
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubClinicRepo) FindByID(_ context.Context, id string) (*domain.Clinic, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClinicNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClinicRepo) List(_ context.Context, scope ports.Scope) ([]*domain.Clinic, error) {
	var out []*domain.Clinic
	for _, c := range r.byID {
		if scope.BranchID != "" && c.BranchID != scope.BranchID {
			continue
		}
		if scope.ClinicID != "" && c.ID != scope.ClinicID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type directoryFixture struct {
	actors   *stubActorRepo
	branches *stubBranchRepo
	clinics  *stubClinicRepo
	patients *stubPatientRepo
	orders   *stubOrderRepo
	svc      ports.DirectoryService
}

func newDirectoryFixture() *directoryFixture {
	f := &directoryFixture{
		actors:   newStubActorRepo(),
		branches: newStubBranchRepo(),
		clinics:  newStubClinicRepo(),
		patients: newStubPatientRepo(),
		orders:   newStubOrderRepo(),
	}

	f.branches.byID["branch-a"] = &domain.Branch{ID: "branch-a", Name: "Matriz", IsMatriz: true}
	f.branches.byID["branch-b"] = &domain.Branch{ID: "branch-b", Name: "Filial Sul"}
	f.clinics.byID["clinic-a"] = &domain.Clinic{ID: "clinic-a", BranchID: "branch-a", Name: "Sorriso"}
	f.clinics.byID["clinic-b"] = &domain.Clinic{ID: "clinic-b", BranchID: "branch-b", Name: "Dental Sul"}

	f.actors.add(&domain.Actor{ID: "dentist-1", Name: "Dra. Ana", Email: "ana@lab.com", Role: domain.RoleDentist, ClinicID: "clinic-a", BranchID: "branch-a", Active: true})
	f.actors.add(&domain.Actor{ID: "dentist-2", Name: "Dr. Bruno", Email: "bruno@lab.com", Role: domain.RoleDentist, ClinicID: "clinic-b", BranchID: "branch-b", Active: true})

	f.orders.byID["o1"] = &domain.Order{ID: "o1", DentistID: "dentist-1", ClinicID: "clinic-a", BranchID: "branch-a", Status: domain.StatusPedidoSolicitado}
	f.orders.byID["o2"] = &domain.Order{ID: "o2", DentistID: "dentist-1", ClinicID: "clinic-a", BranchID: "branch-a", Status: domain.StatusEntregue}

	f.svc = NewDirectoryService(f.actors, f.branches, f.clinics, f.patients, f.orders, discardLogger)
	return f
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDirectory_ListDentists_AttachesOrderCounts(t *testing.T) {
	f := newDirectoryFixture()

	rows, err := f.svc.ListDentists(context.Background(), masterCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 dentists, got %d", len(rows))
	}
	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.ID] = r.OrderCount
	}
	if counts["dentist-1"] != 2 || counts["dentist-2"] != 0 {
		t.Errorf("order counts wrong: %v", counts)
	}
}

func TestDirectory_ListDentists_CountFailureDefaultsToZero(t *testing.T) {
	f := newDirectoryFixture()
	f.orders.countErr = errors.New("aggregation timeout")

	rows, err := f.svc.ListDentists(context.Background(), masterCaller)
	if err != nil {
		t.Fatalf("a failed count must not fail the listing: %v", err)
	}
	for _, r := range rows {
		if r.OrderCount != 0 {
			t.Errorf("dentist %s: count must default to zero, got %d", r.ID, r.OrderCount)
		}
	}
}

func TestDirectory_ListDentists_BranchAdminScoped(t *testing.T) {
	f := newDirectoryFixture()
	caller := ports.ActorContext{ActorID: "fa-1", Role: domain.RoleAdminFilial, BranchID: "branch-a"}

	rows, err := f.svc.ListDentists(context.Background(), caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "dentist-1" {
		t.Errorf("branch admin must only see own branch dentists: %+v", rows)
	}
}

func TestDirectory_ListClinics_ForbiddenForDentist(t *testing.T) {
	f := newDirectoryFixture()

	_, err := f.svc.ListClinics(context.Background(), dentistCaller)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDirectory_ListClinics_CountsAndScope(t *testing.T) {
	f := newDirectoryFixture()
	f.patients.byID["p1"] = &domain.Patient{ID: "p1", DentistID: "dentist-1", ClinicID: "clinic-a", BranchID: "branch-a"}

	caller := ports.ActorContext{ActorID: "fa-1", Role: domain.RoleAdminFilial, BranchID: "branch-a"}
	rows, err := f.svc.ListClinics(context.Background(), caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "clinic-a" {
		t.Fatalf("branch admin must only see own branch clinics: %+v", rows)
	}
	if rows[0].DentistCount != 1 || rows[0].PatientCount != 1 {
		t.Errorf("member counts wrong: %+v", rows[0])
	}
}

func TestDirectory_ListClinics_CountFailureDegradesPerRow(t *testing.T) {
	f := newDirectoryFixture()
	f.actors.countErr = errors.New("count unavailable")

	rows, err := f.svc.ListClinics(context.Background(), masterCaller)
	if err != nil {
		t.Fatalf("count failure must not fail the listing: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 clinics, got %d", len(rows))
	}
	for _, r := range rows {
		if r.DentistCount != 0 {
			t.Errorf("clinic %s: dentist count must default to zero", r.ID)
		}
	}
}

func TestDirectory_ListBranches_ForbiddenBelowFilial(t *testing.T) {
	f := newDirectoryFixture()

	clinicAdmin := ports.ActorContext{ActorID: "ca-1", Role: domain.RoleAdminClinica, ClinicID: "clinic-a"}
	if _, err := f.svc.ListBranches(context.Background(), clinicAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin_clinica: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.ListBranches(context.Background(), dentistCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("dentist: expected ErrForbidden, got %v", err)
	}
}

func TestDirectory_ListBranches_FilialSeesOwnBranchOnly(t *testing.T) {
	f := newDirectoryFixture()
	caller := ports.ActorContext{ActorID: "fa-1", Role: domain.RoleAdminFilial, BranchID: "branch-b"}

	rows, err := f.svc.ListBranches(context.Background(), caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "branch-b" {
		t.Errorf("branch admin must only see own branch: %+v", rows)
	}
}

func TestDirectory_ListPatients_DentistSeesOwnOnly(t *testing.T) {
	f := newDirectoryFixture()
	f.patients.byID["mine"] = &domain.Patient{ID: "mine", DentistID: "dentist-1", ClinicID: "clinic-a"}
	f.patients.byID["theirs"] = &domain.Patient{ID: "theirs", DentistID: "dentist-2", ClinicID: "clinic-b"}

	patients, err := f.svc.ListPatients(context.Background(), dentistCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 1 || patients[0].ID != "mine" {
		t.Errorf("dentist must only list own patients: %+v", patients)
	}
}

func TestDirectory_CreatePatient_InheritsMembership(t *testing.T) {
	f := newDirectoryFixture()

	p, err := f.svc.CreatePatient(context.Background(), ports.CreatePatientInput{
		Caller:    dentistCaller,
		Name:      "Maria Souza",
		Phone:     "+55 11 99999-0000",
		BirthDate: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DentistID != "dentist-1" || p.ClinicID != "clinic-a" || p.BranchID != "branch-a" {
		t.Errorf("patient must inherit the dentist's membership: %+v", p)
	}
	if _, ok := f.patients.byID[p.ID]; !ok {
		t.Error("patient not stored")
	}
}

func TestDirectory_CreatePatient_NameRequired(t *testing.T) {
	f := newDirectoryFixture()

	_, err := f.svc.CreatePatient(context.Background(), ports.CreatePatientInput{Caller: dentistCaller})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
