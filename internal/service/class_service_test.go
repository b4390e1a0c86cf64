package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunodmn/escola-admin-api/internal/models"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

type mockClassRepo struct {
	all         []models.Class
	byProfessor []models.Class
	classByID   *models.Class
	findErr     error
	createErr   error
	updateErr   error
	deleteErr   error

	listAllCalled bool
	byProfID      int64
	created       *models.Class
	deletedID     int64
}

func (m *mockClassRepo) ListAll(ctx context.Context) ([]models.Class, error) {
	m.listAllCalled = true
	return m.all, nil
}

func (m *mockClassRepo) ListByProfessor(ctx context.Context, professorID int64) ([]models.Class, error) {
	m.byProfID = professorID
	return m.byProfessor, nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.classByID, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.createErr != nil {
		return m.createErr
	}
	class.ID = 1
	m.created = class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	return m.updateErr
}

func (m *mockClassRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func validClass() ClassRequest {
	return ClassRequest{Name: "Turma A", Shift: "manhã", Time: "08:00", NumberOfVacancies: 30}
}

func TestClassListAdminSeesAll(t *testing.T) {
	repo := &mockClassRepo{all: []models.Class{{ID: 1}, {ID: 2}}}
	svc := NewClassService(repo, nil, nil, nil)

	classes, err := svc.List(context.Background(), admin(1))
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.True(t, repo.listAllCalled)
}

func TestClassListProfessorSeesOwn(t *testing.T) {
	repo := &mockClassRepo{byProfessor: []models.Class{{ID: 3}}}
	svc := NewClassService(repo, nil, nil, nil)

	classes, err := svc.List(context.Background(), professor(4))
	require.NoError(t, err)
	assert.Len(t, classes, 1)
	assert.Equal(t, int64(4), repo.byProfID)
	assert.False(t, repo.listAllCalled)
}

func TestClassListUnknownRoleEmpty(t *testing.T) {
	repo := &mockClassRepo{all: []models.Class{{ID: 1}}}
	svc := NewClassService(repo, nil, nil, nil)

	classes, err := svc.List(context.Background(), &models.JWTClaims{UserID: 1, Role: "intern"})
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)
	assert.False(t, repo.listAllCalled)

	classes, err = svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestClassWritesAdminOnly(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), professor(4), validClass())
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Update(context.Background(), professor(4), 1, validClass())
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	err = svc.Delete(context.Background(), professor(4), 1)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	assert.Nil(t, repo.created)
	assert.Zero(t, repo.deletedID)
}

func TestClassCreateByAdmin(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil)

	class, err := svc.Create(context.Background(), admin(1), validClass())
	require.NoError(t, err)
	assert.Equal(t, int64(1), class.ID)
	assert.Equal(t, "Turma A", repo.created.Name)
}

func TestClassCreateValidatesVacancies(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil, nil)

	req := validClass()
	req.NumberOfVacancies = 0
	_, err := svc.Create(context.Background(), admin(1), req)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestClassUpdateNotFound(t *testing.T) {
	repo := &mockClassRepo{updateErr: sql.ErrNoRows}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), admin(1), 99, validClass())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Turma não encontrada para atualização.", appErr.Message)
}

func TestClassGetNotFound(t *testing.T) {
	repo := &mockClassRepo{findErr: sql.ErrNoRows}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, "Turma não encontrada.", appErrors.FromError(err).Message)
}
