package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

func TestListByProfessorFiltersOwnership(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	profID := int64(4)
	rows := sqlmock.NewRows([]string{"id", "name", "shift", "time", "number_of_vacancies", "professor_id", "created_at"}).
		AddRow(int64(1), "Turma A", "manhã", "08:00", 30, profID, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, shift, time, number_of_vacancies, professor_id, created_at FROM classes WHERE professor_id = $1 ORDER BY name ASC")).
		WithArgs(profID).
		WillReturnRows(rows)

	classes, err := repo.ListByProfessor(context.Background(), profID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Turma A", classes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClassReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery("INSERT INTO classes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now()))

	class := &models.Class{Name: "Turma B", Shift: "tarde", Time: "14:00", NumberOfVacancies: 25}
	err := repo.Create(context.Background(), class)
	require.NoError(t, err)
	assert.Equal(t, int64(9), class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClassNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery("UPDATE classes SET").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	class := &models.Class{ID: 123, Name: "Turma X", Shift: "noite", Time: "19:00", NumberOfVacancies: 20}
	err := repo.Update(context.Background(), class)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClassNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("DELETE FROM classes").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
