package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

type Service struct {
	users    UserRepository
	patients PatientRepository
	doctors  DoctorRepository
	tokens   *auth.TokenIssuer
}

func NewService(users UserRepository, patients PatientRepository, doctors DoctorRepository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, patients: patients, doctors: doctors, tokens: tokens}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if !in.Role.Known() {
		return nil, fmt.Errorf("invalid role: %s", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       "active",
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", apperror.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil, fmt.Errorf("bad credentials: %w", apperror.ErrForbidden)
		}
		return "", nil, err
	}
	if u.Status != "active" {
		return "", nil, fmt.Errorf("account disabled: %w", apperror.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("bad credentials: %w", apperror.ErrForbidden)
	}
	token, err := s.tokens.Mint(u.ID, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// -- patient profiles --

// CreatePatientProfile creates the one patient profile for a user account.
// Patients may only create their own; a second profile for the same user is a
// Conflict, which is distinct from an authorization failure.
func (s *Service) CreatePatientProfile(ctx context.Context, actor auth.Actor, p *PatientProfile) (*PatientProfile, error) {
	if p.UserID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if auth.Authorize(actor, auth.OpCreatePatientProfile, auth.Target{OwnerUserID: p.UserID}) != auth.Allow {
		return nil, fmt.Errorf("cannot create profile for another user: %w", apperror.ErrForbidden)
	}

	if _, err := s.patients.GetByUserID(ctx, p.UserID); err == nil {
		return nil, fmt.Errorf("profile already exists for user %s: %w", p.UserID, apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, actor auth.Actor, id uuid.UUID) (*PatientProfile, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auth.Authorize(actor, auth.OpViewPatientRecord, auth.Target{OwnerUserID: p.UserID}) != auth.Allow {
		return nil, fmt.Errorf("cannot view this patient: %w", apperror.ErrForbidden)
	}
	return p, nil
}

func (s *Service) GetPatientByUser(ctx context.Context, actor auth.Actor, userID uuid.UUID) (*PatientProfile, error) {
	if auth.Authorize(actor, auth.OpViewPatientRecord, auth.Target{OwnerUserID: userID}) != auth.Allow {
		return nil, fmt.Errorf("cannot view this patient: %w", apperror.ErrForbidden)
	}
	return s.patients.GetByUserID(ctx, userID)
}

func (s *Service) ListPatients(ctx context.Context, actor auth.Actor, limit, offset int) ([]*PatientProfile, int, error) {
	if auth.Authorize(actor, auth.OpListPatients, auth.Target{}) != auth.Allow {
		return nil, 0, fmt.Errorf("cannot list patients: %w", apperror.ErrForbidden)
	}
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) UpdatePatient(ctx context.Context, actor auth.Actor, id uuid.UUID, upd PatientProfileUpdate) (*PatientProfile, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auth.Authorize(actor, auth.OpUpdatePatientRecord, auth.Target{OwnerUserID: p.UserID}) != auth.Allow {
		return nil, fmt.Errorf("cannot update this patient: %w", apperror.ErrForbidden)
	}
	return s.patients.Update(ctx, id, upd)
}

func (s *Service) DeletePatient(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if auth.Authorize(actor, auth.OpDeletePatient, auth.Target{}) != auth.Allow {
		return fmt.Errorf("cannot delete patients: %w", apperror.ErrForbidden)
	}
	deleted, err := s.patients.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("patient %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

// PatientOwnerUserID resolves the owning user account of a patient profile.
// Used by other domains for ownership checks; no authorization of its own.
func (s *Service) PatientOwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.UserID, nil
}

// -- doctor profiles --

func (s *Service) CreateDoctorProfile(ctx context.Context, actor auth.Actor, d *DoctorProfile) (*DoctorProfile, error) {
	if d.UserID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if actor.Role != auth.RoleAdmin && actor.ID != d.UserID {
		return nil, fmt.Errorf("cannot create profile for another doctor: %w", apperror.ErrForbidden)
	}
	u, err := s.users.GetByID(ctx, d.UserID)
	if err != nil {
		return nil, err
	}
	if u.Role != auth.RoleDoctor {
		return nil, fmt.Errorf("user %s is not a doctor", d.UserID)
	}
	if _, err := s.doctors.GetByUserID(ctx, d.UserID); err == nil {
		return nil, fmt.Errorf("profile already exists for doctor %s: %w", d.UserID, apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*DoctorProfile, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorProfile, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// IsDoctor reports whether the given user account exists with the doctor role.
func (s *Service) IsDoctor(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role == auth.RoleDoctor, nil
}
