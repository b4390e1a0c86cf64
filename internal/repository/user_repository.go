package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

// UserRepository provides database access for user accounts and keeps the
// professor side of the classes table consistent on writes.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address, password hash included.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, username, email, password, role, phone, created_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier without the password hash.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, name, username, email, password, role, phone, created_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns every user ordered by name. Password hashes are not
// selected.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, name, username, email, role, phone, created_at FROM users ORDER BY name ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateWithClasses inserts the user and, for professors, assigns the
// given classes to them. Both steps run in one transaction so a failed
// class assignment leaves no user row behind.
func (r *UserRepository) CreateWithClasses(ctx context.Context, user *models.User, classIDs []int64) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO users (name, username, email, password, role, phone)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
		if err := tx.QueryRowxContext(ctx, insert,
			user.Name, user.Username, user.Email, user.Password, user.Role, user.Phone,
		).Scan(&user.ID, &user.CreatedAt); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		if user.Role == models.RoleProfessor && len(classIDs) > 0 {
			const assign = `UPDATE classes SET professor_id = $1 WHERE id = ANY($2::int[])`
			if _, err := tx.ExecContext(ctx, assign, user.ID, pq.Array(classIDs)); err != nil {
				return fmt.Errorf("assign classes to professor: %w", err)
			}
		}

		return nil
	})
}

// UpdateWithClasses updates the user row and reassigns class ownership when
// the resulting role is professor: every class currently owned is released
// first, then the requested set is claimed. Classes dropped from classIDs
// therefore lose their assignment. The password column is only touched when
// updatePassword is set.
//
// When the resulting role is not professor, existing assignments are left
// untouched.
func (r *UserRepository) UpdateWithClasses(ctx context.Context, user *models.User, updatePassword bool, classIDs []int64) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		if updatePassword {
			const update = `UPDATE users SET name = $1, email = $2, role = $3, phone = $4, password = $5 WHERE id = $6
            RETURNING username, created_at`
			err = tx.QueryRowxContext(ctx, update,
				user.Name, user.Email, user.Role, user.Phone, user.Password, user.ID,
			).Scan(&user.Username, &user.CreatedAt)
		} else {
			const update = `UPDATE users SET name = $1, email = $2, role = $3, phone = $4 WHERE id = $5
            RETURNING username, created_at`
			err = tx.QueryRowxContext(ctx, update,
				user.Name, user.Email, user.Role, user.Phone, user.ID,
			).Scan(&user.Username, &user.CreatedAt)
		}
		if err != nil {
			if err == sql.ErrNoRows {
				return err
			}
			return fmt.Errorf("update user: %w", err)
		}

		if user.Role == models.RoleProfessor {
			const release = `UPDATE classes SET professor_id = NULL WHERE professor_id = $1`
			if _, err := tx.ExecContext(ctx, release, user.ID); err != nil {
				return fmt.Errorf("release professor classes: %w", err)
			}
			if len(classIDs) > 0 {
				const claim = `UPDATE classes SET professor_id = $1 WHERE id = ANY($2::int[])`
				if _, err := tx.ExecContext(ctx, claim, user.ID, pq.Array(classIDs)); err != nil {
					return fmt.Errorf("claim professor classes: %w", err)
				}
			}
		}

		return nil
	})
}

// Delete removes the user row. The classes.professor_id foreign key is
// declared ON DELETE SET NULL, so owned classes survive unassigned.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
