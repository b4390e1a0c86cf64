package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

const classColumns = `id, name, shift, time, number_of_vacancies, professor_id, created_at`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListAll returns every class ordered by name.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes ORDER BY name ASC`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByProfessor returns the classes owned by the given professor,
// ordered by name.
func (r *ClassRepository) ListByProfessor(ctx context.Context, professorID int64) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE professor_id = $1 ORDER BY name ASC`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, professorID); err != nil {
		return nil, fmt.Errorf("list professor classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name, shift, time, number_of_vacancies, professor_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query,
		class.Name, class.Shift, class.Time, class.NumberOfVacancies, class.ProfessorID,
	).Scan(&class.ID, &class.CreatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies a class record, professor assignment included.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET name = $1, shift = $2, time = $3, number_of_vacancies = $4, professor_id = $5 WHERE id = $6
        RETURNING created_at`
	if err := r.db.QueryRowxContext(ctx, query,
		class.Name, class.Shift, class.Time, class.NumberOfVacancies, class.ProfessorID, class.ID,
	).Scan(&class.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class. Junction rows cascade at the database level.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
