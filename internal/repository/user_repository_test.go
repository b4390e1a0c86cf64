package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "username", "email", "password", "role", "phone", "created_at"}).
		AddRow(int64(1), "Maria", "maria", "maria@example.com", "hash", string(models.RoleAdmin), nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, username, email, password, role, phone, created_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("maria@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.Equal(t, "hash", user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithClassesAssignsProfessor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET professor_id = $1 WHERE id = ANY($2::int[])")).
		WithArgs(int64(7), pq.Array([]int64{1, 2})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	user := &models.User{Name: "João", Username: "joao", Email: "joao@example.com", Password: "hash", Role: models.RoleProfessor}
	err := repo.CreateWithClasses(context.Background(), user, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithClassesAdminSkipsAssignment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))
	mock.ExpectCommit()

	user := &models.User{Name: "Ana", Username: "ana", Email: "ana@example.com", Password: "hash", Role: models.RoleAdmin}
	err := repo.CreateWithClasses(context.Background(), user, []int64{1, 2})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithClassesRollsBackOnConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	user := &models.User{Name: "Ana", Username: "ana", Email: "ana@example.com", Password: "hash", Role: models.RoleAdmin}
	err := repo.CreateWithClasses(context.Background(), user, nil)
	require.Error(t, err)
	assert.Equal(t, "users_email_key", ConstraintName(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithClassesReleasesThenClaims(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE users SET").
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at"}).AddRow("joao", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET professor_id = NULL WHERE professor_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET professor_id = $1 WHERE id = ANY($2::int[])")).
		WithArgs(int64(7), pq.Array([]int64{2, 5})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	user := &models.User{ID: 7, Name: "João", Email: "joao@example.com", Role: models.RoleProfessor}
	err := repo.UpdateWithClasses(context.Background(), user, false, []int64{2, 5})
	require.NoError(t, err)
	assert.Equal(t, "joao", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithClassesEmptySetOnlyReleases(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE users SET").
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at"}).AddRow("joao", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET professor_id = NULL WHERE professor_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	user := &models.User{ID: 7, Name: "João", Email: "joao@example.com", Role: models.RoleProfessor}
	err := repo.UpdateWithClasses(context.Background(), user, false, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithClassesMissingUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE users SET").
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at"}))
	mock.ExpectRollback()

	user := &models.User{ID: 99, Name: "X", Email: "x@example.com", Role: models.RoleAdmin}
	err := repo.UpdateWithClasses(context.Background(), user, false, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
