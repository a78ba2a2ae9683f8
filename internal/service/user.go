package service

import (
	"context"
	"errors"
	"fmt"

	"centerstage/internal/models"
	"centerstage/internal/repository"
	"centerstage/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns account administration and credential checks.
type UserService struct {
	users repository.UserRepository
}

// NewUserService wires the user rules.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create makes a new admin account with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, username, email, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidRole(role) {
		return nil, models.NewValidationError(fmt.Sprintf("invalid role %q", role))
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, models.NewConflictError("username or email already in use")
	}
	return user, nil
}

// Authenticate verifies credentials and returns the account on success.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("invalid credentials")
		}
		return nil, models.NewInternalError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// List returns every account, oldest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// ChangeRole moves a user between admin and super_admin. Actors cannot
// change their own role, which keeps at least one super admin reachable.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID uint, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, models.NewValidationError(fmt.Sprintf("invalid role %q", role))
	}
	if actorID == targetID {
		return nil, models.NewConflictError("cannot change your own role")
	}
	user, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", targetID)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// Delete removes an account. Actors cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewConflictError("cannot delete your own account")
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GrantAccess adds a user to a project's moderator set. Idempotent.
func (s *UserService) GrantAccess(ctx context.Context, userID uint, projectID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.users.GrantProjectAccess(ctx, userID, projectID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RevokeAccess removes a user from a project's moderator set.
func (s *UserService) RevokeAccess(ctx context.Context, userID uint, projectID string) error {
	if err := s.users.RevokeProjectAccess(ctx, userID, projectID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
