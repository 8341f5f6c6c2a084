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

type directoryService struct {
	actors   ports.ActorRepository
	branches ports.BranchRepository
	clinics  ports.ClinicRepository
	patients ports.PatientRepository
	orders   ports.OrderRepository
	log      zerolog.Logger
}

// NewDirectoryService returns a DirectoryService implementation.
func NewDirectoryService(
	actors ports.ActorRepository,
	branches ports.BranchRepository,
	clinics ports.ClinicRepository,
	patients ports.PatientRepository,
	orders ports.OrderRepository,
	log zerolog.Logger,
) ports.DirectoryService {
	return &directoryService{
		actors:   actors,
		branches: branches,
		clinics:  clinics,
		patients: patients,
		orders:   orders,
		log:      log,
	}
}

// ListDentists returns the dentist directory visible to the caller. A plain
// dentist sees only its own profile. Order counts are attached per row;
// a failed count defaults to zero without failing the list.
func (s *directoryService) ListDentists(ctx context.Context, caller ports.ActorContext) ([]ports.DentistSummary, error) {
	if !domain.CanAccess(domain.CapabilityDentistas, caller.Role) && caller.Role != domain.RoleDentist {
		return nil, fmt.Errorf("list dentists: %w", domain.ErrForbidden)
	}

	dentists, err := s.actors.List(ctx, ports.ListActorsFilter{
		Scope: ports.ScopeFor(caller),
		Role:  string(domain.RoleDentist),
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.DentistSummary, 0, len(dentists))
	for _, d := range dentists {
		count, err := s.orders.CountByDentist(ctx, d.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("dentist_id", d.ID).Msg("order count failed, defaulting to zero")
			count = 0
		}
		summaries = append(summaries, ports.DentistSummary{
			ID:         d.ID,
			Name:       d.Name,
			Email:      d.Email,
			ClinicID:   d.ClinicID,
			BranchID:   d.BranchID,
			Active:     d.Active,
			OrderCount: count,
		})
	}
	return summaries, nil
}

// ListClinics returns clinics visible to the caller with derived member
// counts. Count failures degrade to zero per row.
func (s *directoryService) ListClinics(ctx context.Context, caller ports.ActorContext) ([]ports.ClinicSummary, error) {
	if !domain.CanAccess(domain.CapabilityClinicas, caller.Role) {
		return nil, fmt.Errorf("list clinics: %w", domain.ErrForbidden)
	}

	clinics, err := s.clinics.List(ctx, ports.ScopeFor(caller))
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.ClinicSummary, 0, len(clinics))
	for _, c := range clinics {
		summary := ports.ClinicSummary{
			ID:        c.ID,
			BranchID:  c.BranchID,
			Name:      c.Name,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		}
		if n, err := s.actors.CountByClinic(ctx, c.ID, domain.RoleDentist); err != nil {
			s.log.Warn().Err(err).Str("clinic_id", c.ID).Msg("dentist count failed, defaulting to zero")
		} else {
			summary.DentistCount = n
		}
		if n, err := s.patients.CountByClinic(ctx, c.ID); err != nil {
			s.log.Warn().Err(err).Str("clinic_id", c.ID).Msg("patient count failed, defaulting to zero")
		} else {
			summary.PatientCount = n
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListBranches returns branches visible to the caller with derived counts.
func (s *directoryService) ListBranches(ctx context.Context, caller ports.ActorContext) ([]ports.BranchSummary, error) {
	if !domain.CanAccess(domain.CapabilityFiliais, caller.Role) {
		return nil, fmt.Errorf("list branches: %w", domain.ErrForbidden)
	}

	branches, err := s.branches.List(ctx, ports.ScopeFor(caller))
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.BranchSummary, 0, len(branches))
	for _, b := range branches {
		summary := ports.BranchSummary{
			ID:        b.ID,
			Name:      b.Name,
			City:      b.City,
			IsMatriz:  b.IsMatriz,
			CreatedAt: b.CreatedAt,
		}
		if n, err := s.actors.CountByBranch(ctx, b.ID, domain.RoleDentist); err != nil {
			s.log.Warn().Err(err).Str("branch_id", b.ID).Msg("dentist count failed, defaulting to zero")
		} else {
			summary.DentistCount = n
		}
		if n, err := s.patients.CountByBranch(ctx, b.ID); err != nil {
			s.log.Warn().Err(err).Str("branch_id", b.ID).Msg("patient count failed, defaulting to zero")
		} else {
			summary.PatientCount = n
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListPatients returns the patients visible to the caller: a dentist's own
// patients, a clinic/branch admin's subtree, everything for the super admin.
func (s *directoryService) ListPatients(ctx context.Context, caller ports.ActorContext) ([]*domain.Patient, error) {
	if !domain.CanAccess(domain.CapabilityPacientes, caller.Role) {
		return nil, fmt.Errorf("list patients: %w", domain.ErrForbidden)
	}
	return s.patients.List(ctx, ports.ScopeFor(caller))
}

// CreatePatient registers a patient owned by the calling dentist.
func (s *directoryService) CreatePatient(ctx context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	if !domain.CanAccess(domain.CapabilityPacientes, input.Caller.Role) {
		return nil, fmt.Errorf("create patient: %w", domain.ErrForbidden)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("create patient: name is required: %w", domain.ErrValidation)
	}

	p := &domain.Patient{
		ID:        uuid.NewString(),
		DentistID: input.Caller.ActorID,
		ClinicID:  input.Caller.ClinicID,
		BranchID:  input.Caller.BranchID,
		Name:      input.Name,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("patient_id", p.ID).Str("dentist_id", p.DentistID).Msg("patient registered")
	return p, nil
}
