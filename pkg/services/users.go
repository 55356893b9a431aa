package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	mailer "github.com/federicoescribanog-oss/WebControlHoras/pkg/mail"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/repositories"
)

// LoginResult is returned by login operations. Token is empty when the
// account must change its password before receiving one.
type LoginResult struct {
	Token              string       `json:"token,omitempty"`
	MustChangePassword bool         `json:"mustChangePassword,omitempty"`
	User               *models.User `json:"user"`
}

// CreateUserInput carries the fields for admin user creation. Role is
// the role name; an empty Password triggers generation of a temporary
// one.
type CreateUserInput struct {
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial user update. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Email  *string
	Role   *string
	Active *bool
}

// UserService implements authentication flows and admin account CRUD.
type UserService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePasswordFirstLogin(ctx context.Context, email, current, newPassword string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID int64, current, newPassword string) error
	ResetPassword(ctx context.Context, email string) error

	Create(ctx context.Context, input CreateUserInput, createdBy int64) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id, callerID int64) error
}

type userService struct {
	repo   repositories.UserRepository
	tokens auth.TokenService
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	repo repositories.UserRepository,
	tokens auth.TokenService,
	mailer mailer.Mailer,
	logger *zap.Logger,
) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// Login authenticates an active account. A first-login account gets no
// token; it must complete the password change flow first.
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.IsFirstLogin() {
		s.logger.Info("First login, password change required", zap.String("email", user.Email))
		return &LoginResult{MustChangePassword: true, User: user}, nil
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))
	return &LoginResult{Token: token, User: user}, nil
}

// ChangePasswordFirstLogin completes the first-login flow: it verifies
// the temporary password, stores the new one and issues a token.
func (s *userService) ChangePasswordFirstLogin(ctx context.Context, email, current, newPassword string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, current) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsFirstLogin() {
		return nil, apperrors.NewValidationError("account has already completed its first login")
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash, true); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("First-login password change completed", zap.String("email", user.Email))
	return &LoginResult{Token: token, User: user}, nil
}

// ChangePassword updates the password of an authenticated account.
func (s *userService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, current) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash, false); err != nil {
		return err
	}

	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

// ResetPassword stores a generated temporary password and emails it.
// It succeeds silently for unknown emails so the endpoint does not
// reveal which accounts exist.
func (s *userService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	tempPassword, err := auth.GeneratePassword()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return err
	}

	s.sendAsync(user.Email, tempPassword, s.mailer.SendPasswordReset)

	s.logger.Info("Password reset", zap.String("email", user.Email))
	return nil
}

// Create provisions a new account. With no password given a temporary
// one is generated; either way it is mailed to the new user, who must
// change it on first login.
func (s *userService) Create(ctx context.Context, input CreateUserInput, createdBy int64) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("invalid email address")
	}

	if !models.IsValidRole(input.Role) {
		return nil, apperrors.ErrInvalidRole
	}

	password := input.Password
	if password == "" {
		generated, err := auth.GeneratePassword()
		if err != nil {
			return nil, err
		}
		password = generated
	} else if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	roleID, err := s.repo.RoleIDByName(ctx, input.Role)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		Role:         input.Role,
		CreatedBy:    &createdBy,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendAsync(user.Email, password, s.mailer.SendWelcome)

	s.logger.Info("User created",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.Int64("created_by", createdBy))

	return user, nil
}

// Get retrieves an account by id.
func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all accounts.
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// Update applies a partial account update.
func (s *userService) Update(ctx context.Context, id int64, input UpdateUserInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email address")
		}
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, apperrors.ErrUserExists
			}
		}
		user.Email = email
	}
	if input.Role != nil {
		if !models.IsValidRole(*input.Role) {
			return nil, apperrors.ErrInvalidRole
		}
		roleID, err := s.repo.RoleIDByName(ctx, *input.Role)
		if err != nil {
			return nil, err
		}
		user.RoleID = roleID
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.Int64("id", id))
	return user, nil
}

// Delete removes an account. Callers cannot delete themselves.
func (s *userService) Delete(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return apperrors.NewValidationError("cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.Int64("id", id))
	return nil
}

// sendAsync delivers a notification mail without blocking the request.
// Delivery failure is logged, never fatal.
func (s *userService) sendAsync(to, tempPassword string, send func(context.Context, string, string) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := send(ctx, to, tempPassword); err != nil {
			s.logger.Error("Failed to send notification email",
				zap.String("to", to),
				zap.Error(err))
		}
	}()
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
