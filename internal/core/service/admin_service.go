package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

type adminService struct {
	actors   ports.ActorRepository
	branches ports.BranchRepository
	clinics  ports.ClinicRepository
	orders   ports.OrderRepository
	log      zerolog.Logger
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(
	actors ports.ActorRepository,
	branches ports.BranchRepository,
	clinics ports.ClinicRepository,
	orders ports.OrderRepository,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{
		actors:   actors,
		branches: branches,
		clinics:  clinics,
		orders:   orders,
		log:      log,
	}
}

// requireStoredSuperAdmin re-verifies the caller against the stored actor
// row. Middleware already checked the JWT claims, but privileged operations
// never act on claims alone: a revoked or downgraded account fails here.
func (s *adminService) requireStoredSuperAdmin(ctx context.Context, caller ports.ActorContext) error {
	actor, err := s.actors.FindByID(ctx, caller.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if !actor.Active || !domain.IsSuperAdmin(actor.Role) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *adminService) CreateBranch(ctx context.Context, input ports.CreateBranchInput) (*domain.Branch, error) {
	if err := s.requireStoredSuperAdmin(ctx, input.Caller); err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("create branch: name is required: %w", domain.ErrValidation)
	}

	b := &domain.Branch{
		ID:        uuid.NewString(),
		Name:      input.Name,
		City:      input.City,
		IsMatriz:  input.IsMatriz,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.branches.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().Str("branch_id", b.ID).Str("name", b.Name).Msg("branch created")
	return b, nil
}

func (s *adminService) CreateClinic(ctx context.Context, input ports.CreateClinicInput) (*domain.Clinic, error) {
	if err := s.requireStoredSuperAdmin(ctx, input.Caller); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	if input.Name == "" || input.BranchID == "" {
		return nil, fmt.Errorf("create clinic: name and branch are required: %w", domain.ErrValidation)
	}
	// The clinic's branch link is immutable after creation, so it has to
	// point at a real branch now.
	if _, err := s.branches.FindByID(ctx, input.BranchID); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}

	c := &domain.Clinic{
		ID:        uuid.NewString(),
		BranchID:  input.BranchID,
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.clinics.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("clinic_id", c.ID).Str("branch_id", c.BranchID).Msg("clinic created")
	return c, nil
}

func (s *adminService) CreateActor(ctx context.Context, input ports.CreateActorInput) (*domain.Actor, error) {
	if err := s.requireStoredSuperAdmin(ctx, input.Caller); err != nil {
		return nil, fmt.Errorf("create actor: %w", err)
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("create actor: unknown role %q: %w", input.Role, domain.ErrValidation)
	}
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("create actor: email and password are required: %w", domain.ErrValidation)
	}
	switch role {
	case domain.RoleAdminFilial:
		if input.BranchID == "" {
			return nil, fmt.Errorf("create actor: branch admin requires a branch: %w", domain.ErrValidation)
		}
	case domain.RoleAdminClinica, domain.RoleDentist:
		if input.ClinicID == "" {
			return nil, fmt.Errorf("create actor: %s requires a clinic: %w", role, domain.ErrValidation)
		}
	}

	branchID := input.BranchID
	clinicID := input.ClinicID
	if clinicID != "" {
		clinic, err := s.clinics.FindByID(ctx, clinicID)
		if err != nil {
			return nil, fmt.Errorf("create actor: %w", err)
		}
		// Branch membership is derived from the clinic.
		branchID = clinic.BranchID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := &domain.Actor{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		BranchID:     branchID,
		ClinicID:     clinicID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.actors.Create(ctx, actor)
	if err != nil {
		// Inside this server-verified path an existing account for the same
		// identity is reused rather than treated as a failure.
		if errors.Is(err, domain.ErrActorExists) {
			existing, findErr := s.actors.FindByEmail(ctx, input.Email)
			if findErr != nil {
				return nil, findErr
			}
			s.log.Info().Str("actor_id", existing.ID).Str("email", input.Email).Msg("account already provisioned, reusing identity")
			return existing, nil
		}
		return nil, err
	}

	s.log.Info().Str("actor_id", created.ID).Str("role", string(created.Role)).Msg("actor provisioned")
	return created, nil
}

func (s *adminService) UpdateActor(ctx context.Context, input ports.UpdateActorInput) (*domain.Actor, error) {
	if err := s.requireStoredSuperAdmin(ctx, input.Caller); err != nil {
		return nil, fmt.Errorf("update actor: %w", err)
	}

	actor, err := s.actors.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		actor.Name = input.Name
	}
	if input.Active != nil {
		actor.Active = *input.Active
	}
	actor.UpdatedAt = time.Now().UTC()

	if err := s.actors.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *adminService) DeleteActor(ctx context.Context, caller ports.ActorContext, actorID string) error {
	if err := s.requireStoredSuperAdmin(ctx, caller); err != nil {
		return fmt.Errorf("delete actor: %w", err)
	}

	if _, err := s.actors.FindByID(ctx, actorID); err != nil {
		return err
	}

	n, err := s.orders.CountByDentist(ctx, actorID)
	if err != nil {
		return fmt.Errorf("delete actor: count orders: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete actor: %d orders reference the account: %w", n, domain.ErrActorHasOrders)
	}

	if err := s.actors.Delete(ctx, actorID); err != nil {
		return err
	}
	s.log.Info().Str("actor_id", actorID).Msg("actor deleted")
	return nil
}

func (s *adminService) ResetPassword(ctx context.Context, caller ports.ActorContext, actorID, newPassword string) error {
	if err := s.requireStoredSuperAdmin(ctx, caller); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("reset password: password too short: %w", domain.ErrValidation)
	}

	if _, err := s.actors.FindByID(ctx, actorID); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.actors.UpdatePasswordHash(ctx, actorID, string(hash)); err != nil {
		return err
	}
	s.log.Info().Str("actor_id", actorID).Msg("password reset")
	return nil
}

func (s *adminService) ConfirmContact(ctx context.Context, caller ports.ActorContext, actorID string) error {
	if err := s.requireStoredSuperAdmin(ctx, caller); err != nil {
		return fmt.Errorf("confirm contact: %w", err)
	}

	actor, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.EmailConfirmed {
		return nil
	}
	actor.EmailConfirmed = true
	actor.UpdatedAt = time.Now().UTC()
	return s.actors.Update(ctx, actor)
}

func (s *adminService) ListAccounts(ctx context.Context, caller ports.ActorContext) ([]ports.AccountStatus, error) {
	if err := s.requireStoredSuperAdmin(ctx, caller); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	actors, err := s.actors.List(ctx, ports.ListActorsFilter{})
	if err != nil {
		return nil, err
	}

	accounts := make([]ports.AccountStatus, 0, len(actors))
	for _, a := range actors {
		accounts = append(accounts, ports.AccountStatus{
			Actor:          *a,
			EmailConfirmed: a.EmailConfirmed,
		})
	}
	return accounts, nil
}

// RemoveOrphanAccount deletes an authentication record with no actor
// profile behind it. When a profile does exist the account is not an
// orphan and the call is rejected.
func (s *adminService) RemoveOrphanAccount(ctx context.Context, caller ports.ActorContext, email string) error {
	if err := s.requireStoredSuperAdmin(ctx, caller); err != nil {
		return fmt.Errorf("remove orphan account: %w", err)
	}

	actor, err := s.actors.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			// Nothing stored at all: already clean.
			return nil
		}
		return err
	}
	if actor.Name != "" || actor.Role != "" {
		return fmt.Errorf("remove orphan account: profile exists for %s: %w", email, domain.ErrValidation)
	}
	return s.actors.Delete(ctx, actor.ID)
}
