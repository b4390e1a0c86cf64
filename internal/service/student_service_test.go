package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunodmn/escola-admin-api/internal/models"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

type mockStudentRepo struct {
	all         []models.Student
	byProfessor []models.Student
	studentByID *models.Student
	findErr     error
	createErr   error
	updateErr   error
	deleteErr   error

	listAllCalled  bool
	byProfID       int64
	createdClasses []int64
	updatedClasses []int64
	deletedID      int64
}

func (m *mockStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	m.listAllCalled = true
	return m.all, nil
}

func (m *mockStudentRepo) ListByProfessor(ctx context.Context, professorID int64) ([]models.Student, error) {
	m.byProfID = professorID
	return m.byProfessor, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.studentByID != nil {
		return m.studentByID, nil
	}
	return &models.Student{ID: id, Classes: []models.ClassRef{}}, nil
}

func (m *mockStudentRepo) CreateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = 10
	m.createdClasses = classIDs
	return nil
}

func (m *mockStudentRepo) UpdateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedClasses = classIDs
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func validStudent() StudentRequest {
	return StudentRequest{Name: "Pedro", CPF: "11122233344", RG: "123456", ClassIDs: []int64{1, 2}}
}

func TestStudentListProfessorScoped(t *testing.T) {
	repo := &mockStudentRepo{byProfessor: []models.Student{{ID: 1}}}
	svc := NewStudentService(repo, nil, nil, nil)

	students, err := svc.List(context.Background(), professor(4))
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, int64(4), repo.byProfID)
	assert.False(t, repo.listAllCalled)
}

func TestStudentListUnknownRoleEmpty(t *testing.T) {
	repo := &mockStudentRepo{all: []models.Student{{ID: 1}}}
	svc := NewStudentService(repo, nil, nil, nil)

	students, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
	assert.False(t, repo.listAllCalled)
}

func TestStudentCreatePassesEnrollments(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	student, err := svc.Create(context.Background(), admin(1), validStudent())
	require.NoError(t, err)
	assert.Equal(t, int64(10), student.ID)
	assert.Equal(t, []int64{1, 2}, repo.createdClasses)
}

func TestStudentCreateDuplicateCPF(t *testing.T) {
	repo := &mockStudentRepo{createErr: &pq.Error{Code: "23505", Constraint: "students_cpf_key"}}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), admin(1), validStudent())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Erro: CPF ou RG já cadastrado.", appErr.Message)
}

func TestStudentCreateUnknownClass(t *testing.T) {
	repo := &mockStudentRepo{createErr: &pq.Error{Code: "23503", Constraint: "student_classes_classes_id_fkey"}}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), admin(1), validStudent())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Turma inexistente para matrícula.", appErr.Message)
}

func TestStudentCreateRequiresDocuments(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, nil)

	req := validStudent()
	req.CPF = ""
	_, err := svc.Create(context.Background(), admin(1), req)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestStudentWritesAdminOnly(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), professor(4), validStudent())
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Update(context.Background(), professor(4), 10, validStudent())
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	err = svc.Delete(context.Background(), professor(4), 10)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestStudentUpdateReplacesEnrollments(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	req := validStudent()
	req.ClassIDs = []int64{}
	_, err := svc.Update(context.Background(), admin(1), 10, req)
	require.NoError(t, err)
	assert.Empty(t, repo.updatedClasses)
}

func TestStudentUpdateNotFound(t *testing.T) {
	repo := &mockStudentRepo{updateErr: sql.ErrNoRows}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), admin(1), 99, validStudent())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Estudante não encontrado para atualização.", appErr.Message)
}
