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

type studentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	CreateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error
	UpdateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// StudentRequest is the create/update payload for students. Name, CPF and
// RG are mandatory; everything else mirrors the optional registration-form
// fields. ClassIDs is the full enrollment set for the student.
type StudentRequest struct {
	Name                         string  `json:"name" validate:"required"`
	BirthDate                    *string `json:"birth_date"`
	Age                          *int    `json:"age"`
	Institution                  *string `json:"institution"`
	Grade                        *string `json:"grade"`
	Nationality                  *string `json:"nationality"`
	Hometown                     *string `json:"hometown"`
	State                        *string `json:"state"`
	MaritalStatus                *string `json:"marital_status"`
	Profession                   *string `json:"profession"`
	Sex                          *string `json:"sex"`
	ResponsibleName              *string `json:"responsible_name"`
	ResponsibleContact           *string `json:"responsible_contact"`
	AdditionalResponsibleName    *string `json:"additional_responsible_name"`
	AdditionalResponsibleContact *string `json:"additional_responsible_contact"`
	CPF                          string  `json:"cpf" validate:"required"`
	RG                           string  `json:"rg" validate:"required"`
	UF                           *string `json:"uf"`
	Address                      *string `json:"address"`
	HasHealthPlan                *bool   `json:"has_health_plan"`
	HealthPlanName               *string `json:"health_plan_name"`
	UsesMedication               *bool   `json:"uses_medication"`
	MedicationName               *string `json:"medication_name"`
	HasAllergy                   *bool   `json:"has_allergy"`
	AllergyType                  *string `json:"allergy_type"`
	HasSpecialNeeds              *bool   `json:"has_special_needs"`
	SpecialNeedsType             *string `json:"special_needs_type"`
	BloodType                    *string `json:"blood_type"`
	ImageAuthorization           *bool   `json:"image_authorization"`
	ClassIDs                     []int64 `json:"classIds"`
}

func (r StudentRequest) toModel() *models.Student {
	return &models.Student{
		Name:                         r.Name,
		BirthDate:                    r.BirthDate,
		Age:                          r.Age,
		Institution:                  r.Institution,
		Grade:                        r.Grade,
		Nationality:                  r.Nationality,
		Hometown:                     r.Hometown,
		State:                        r.State,
		MaritalStatus:                r.MaritalStatus,
		Profession:                   r.Profession,
		Sex:                          r.Sex,
		ResponsibleName:              r.ResponsibleName,
		ResponsibleContact:           r.ResponsibleContact,
		AdditionalResponsibleName:    r.AdditionalResponsibleName,
		AdditionalResponsibleContact: r.AdditionalResponsibleContact,
		CPF:                          r.CPF,
		RG:                           r.RG,
		UF:                           r.UF,
		Address:                      r.Address,
		HasHealthPlan:                r.HasHealthPlan,
		HealthPlanName:               r.HealthPlanName,
		UsesMedication:               r.UsesMedication,
		MedicationName:               r.MedicationName,
		HasAllergy:                   r.HasAllergy,
		AllergyType:                  r.AllergyType,
		HasSpecialNeeds:              r.HasSpecialNeeds,
		SpecialNeedsType:             r.SpecialNeedsType,
		BloodType:                    r.BloodType,
		ImageAuthorization:           r.ImageAuthorization,
	}
}

// StudentService coordinates student registration and enrollment.
type StudentService struct {
	repo      studentRepository
	policy    *AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService creates the service.
func NewStudentService(repo studentRepository, policy *AccessPolicy, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if policy == nil {
		policy = NewAccessPolicy()
	}
	return &StudentService{repo: repo, policy: policy, validator: validate, logger: logger}
}

// List returns the students visible to the caller: all of them for
// admins, only students enrolled in the professor's own classes for
// professors, nothing otherwise.
func (s *StudentService) List(ctx context.Context, caller *models.JWTClaims) ([]models.Student, error) {
	if caller == nil || !caller.Role.Valid() {
		return []models.Student{}, nil
	}

	var (
		students []models.Student
		err      error
	)
	switch caller.Role {
	case models.RoleAdmin:
		students, err = s.repo.ListAll(ctx)
	case models.RoleProfessor:
		students, err = s.repo.ListByProfessor(ctx, caller.UserID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao buscar estudantes.")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// Get returns a student by ID with enrolled classes attached.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Estudante não encontrado.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return student, nil
}

// Create registers a student together with its enrollments. The insert
// and every junction row share one transaction.
func (s *StudentService) Create(ctx context.Context, caller *models.JWTClaims, req StudentRequest) (*models.Student, error) {
	if !s.policy.CanManageRecords(caller) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"Nome, CPF e RG são obrigatórios.")
	}

	student := req.toModel()
	if err := s.repo.CreateWithEnrollments(ctx, student, req.ClassIDs); err != nil {
		return nil, s.mapWriteError(err, "Erro interno ao criar estudante.")
	}

	return s.Get(ctx, student.ID)
}

// Update modifies a student and replaces its entire enrollment set with
// the class ids in the request, atomically.
func (s *StudentService) Update(ctx context.Context, caller *models.JWTClaims, id int64, req StudentRequest) (*models.Student, error) {
	if !s.policy.CanManageRecords(caller) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"Nome, CPF e RG são obrigatórios.")
	}

	student := req.toModel()
	student.ID = id
	if err := s.repo.UpdateWithEnrollments(ctx, student, req.ClassIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Estudante não encontrado para atualização.")
		}
		return nil, s.mapWriteError(err, "Erro interno ao atualizar estudante.")
	}

	return s.Get(ctx, id)
}

// Delete removes a student. Enrollment rows cascade.
func (s *StudentService) Delete(ctx context.Context, caller *models.JWTClaims, id int64) error {
	if !s.policy.CanManageRecords(caller) {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Estudante não encontrado para exclusão.")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao excluir estudante.")
	}
	return nil
}

func (s *StudentService) mapWriteError(err error, fallback string) error {
	if repository.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, "Erro: CPF ou RG já cadastrado.")
	}
	if repository.IsForeignKeyViolation(err) {
		return appErrors.Clone(appErrors.ErrValidation, "Turma inexistente para matrícula.")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
}
