package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brunodmn/escola-admin-api/internal/models"
	"github.com/brunodmn/escola-admin-api/internal/repository"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

type classRepository interface {
	ListAll(ctx context.Context) ([]models.Class, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// ClassRequest is the create/update payload for classes. ProfessorID may
// be nil for unassigned classes.
type ClassRequest struct {
	Name              string `json:"name" validate:"required"`
	Shift             string `json:"shift" validate:"required"`
	Time              string `json:"time" validate:"required"`
	NumberOfVacancies int    `json:"number_of_vacancies" validate:"required,gt=0"`
	ProfessorID       *int64 `json:"professor_id"`
}

// ClassService coordinates class operations.
type ClassService struct {
	repo      classRepository
	policy    *AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService creates the service.
func NewClassService(repo classRepository, policy *AccessPolicy, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if policy == nil {
		policy = NewAccessPolicy()
	}
	return &ClassService{repo: repo, policy: policy, validator: validate, logger: logger}
}

// List returns the classes visible to the caller: everything for admins,
// only owned classes for professors, nothing for anyone else.
func (s *ClassService) List(ctx context.Context, caller *models.JWTClaims) ([]models.Class, error) {
	if caller == nil || !caller.Role.Valid() {
		return []models.Class{}, nil
	}

	var (
		classes []models.Class
		err     error
	)
	switch caller.Role {
	case models.RoleAdmin:
		classes, err = s.repo.ListAll(ctx)
	case models.RoleProfessor:
		classes, err = s.repo.ListByProfessor(ctx, caller.UserID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao buscar turmas.")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Get returns a class by ID. Single-record lookups are not role-scoped.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Turma não encontrada.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return class, nil
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, caller *models.JWTClaims, req ClassRequest) (*models.Class, error) {
	if !s.policy.CanManageRecords(caller) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Preencha todos os campos obrigatórios.")
	}

	class := &models.Class{
		Name:              req.Name,
		Shift:             req.Shift,
		Time:              req.Time,
		NumberOfVacancies: req.NumberOfVacancies,
		ProfessorID:       req.ProfessorID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Professor inexistente.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao criar turma.")
	}
	return class, nil
}

// Update modifies a class.
func (s *ClassService) Update(ctx context.Context, caller *models.JWTClaims, id int64, req ClassRequest) (*models.Class, error) {
	if !s.policy.CanManageRecords(caller) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Preencha todos os campos obrigatórios.")
	}

	class := &models.Class{
		ID:                id,
		Name:              req.Name,
		Shift:             req.Shift,
		Time:              req.Time,
		NumberOfVacancies: req.NumberOfVacancies,
		ProfessorID:       req.ProfessorID,
	}
	if err := s.repo.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Turma não encontrada para atualização.")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Professor inexistente.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao atualizar turma.")
	}
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, caller *models.JWTClaims, id int64) error {
	if !s.policy.CanManageRecords(caller) {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Turma não encontrada para exclusão.")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao excluir turma.")
	}
	return nil
}
