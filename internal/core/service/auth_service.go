package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// AuthService implements dentist self-registration and login.
type AuthService struct {
	actors    ports.ActorRepository
	clinics   ports.ClinicRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(actors ports.ActorRepository, clinics ports.ClinicRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{actors: actors, clinics: clinics, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// RegisterDentist provisions a dentist account bound to a clinic. Admin
// tiers are never created here; that is the privileged AdminService path.
func (s *AuthService) RegisterDentist(ctx context.Context, name, email, password, clinicID string) (*domain.Actor, error) {
	if name == "" || email == "" || password == "" || clinicID == "" {
		return nil, fmt.Errorf("register: missing required fields: %w", domain.ErrValidation)
	}

	clinic, err := s.clinics.FindByID(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := &domain.Actor{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleDentist,
		BranchID:     clinic.BranchID,
		ClinicID:     clinic.ID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.actors.Create(ctx, actor)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Actor, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	actor, err := s.actors.FindByEmail(ctx, email)
	if err != nil {
		// An unknown email answers exactly like a wrong password, so the
		// login endpoint cannot be used to enumerate accounts.
		if errors.Is(err, domain.ErrActorNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !actor.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(actor)
	if err != nil {
		return "", nil, err
	}

	return token, actor, nil
}

func (s *AuthService) generateToken(actor *domain.Actor) (string, error) {
	claims := jwt.MapClaims{
		"actor_id":  actor.ID,
		"role":      string(actor.Role),
		"branch_id": actor.BranchID,
		"clinic_id": actor.ClinicID,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
