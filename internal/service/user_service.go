package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brunodmn/escola-admin-api/internal/models"
	"github.com/brunodmn/escola-admin-api/internal/repository"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateWithClasses(ctx context.Context, user *models.User, updatePassword bool, classIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// UpdateUserRequest is the profile-edit payload. Password is optional: when
// absent the stored hash is left untouched. ClassIDs only matters when the
// resulting role is professor.
type UpdateUserRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Role     models.Role `json:"role" validate:"required,oneof=admin professor"`
	Phone    *string     `json:"phone"`
	Password *string     `json:"password" validate:"omitempty,min=8"`
	ClassIDs []int64     `json:"classIds"`
}

// UserService handles account management workflows.
type UserService struct {
	repo      userRepository
	policy    *AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, policy *AccessPolicy, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if policy == nil {
		policy = NewAccessPolicy()
	}
	return &UserService{repo: repo, policy: policy, validator: validate, logger: logger}
}

// List returns every account without password hashes.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao buscar usuários.")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	user.Password = ""
	return user, nil
}

// Update modifies a user. Admins may edit anyone; other callers only their
// own profile, and in that case the role field of the request is ignored
// in favor of the stored role. Professor class assignments are reconciled
// inside the repository transaction.
func (s *UserService) Update(ctx context.Context, caller *models.JWTClaims, id int64, req UpdateUserRequest) (*models.User, error) {
	if !s.policy.CanUpdateUser(caller, id) {
		return nil, appErrors.ErrForbidden
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Dados de atualização inválidos.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado para atualização.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	user := &models.User{
		ID:    id,
		Name:  req.Name,
		Email: strings.ToLower(req.Email),
		Role:  s.policy.EffectiveRole(caller, req.Role, current.Role),
		Phone: req.Phone,
	}

	updatePassword := false
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		user.Password = string(hash)
		updatePassword = true
	}

	if err := s.repo.UpdateWithClasses(ctx, user, updatePassword, req.ClassIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado para atualização.")
		}
		if constraint := repository.ConstraintName(err); constraint != "" {
			field := "username"
			if strings.Contains(constraint, "email") {
				field = "email"
			}
			return nil, appErrors.Clone(appErrors.ErrConflict, "O "+field+" já está em uso.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao atualizar usuário.")
	}

	user.Password = ""
	return user, nil
}

// Delete removes an account. Self-deletion is rejected with a validation
// error before the admin-only rule is even considered.
func (s *UserService) Delete(ctx context.Context, caller *models.JWTClaims, id int64) error {
	if err := s.policy.CheckDeleteUser(caller, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado para exclusão.")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao excluir usuário.")
	}

	return nil
}
