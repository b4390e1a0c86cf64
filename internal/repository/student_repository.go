package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

const studentColumns = `id, name, birth_date, age, institution, grade, nationality, hometown, state,
        marital_status, profession, sex, responsible_name, responsible_contact,
        additional_responsible_name, additional_responsible_contact, cpf, rg, uf, address,
        has_health_plan, health_plan_name, uses_medication, medication_name,
        has_allergy, allergy_type, has_special_needs, special_needs_type,
        blood_type, image_authorization, created_at`

// StudentRepository handles persistence of students and their enrollment
// junction rows. Every multi-table write is transactional: either the
// student row and all enrollment rows land together, or none do.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListAll returns every student ordered by name, each decorated with its
// enrolled classes.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if err := r.attachClasses(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListByProfessor returns the students enrolled in at least one class
// owned by the given professor, decorated with all of their classes (not
// only the professor's own).
func (r *StudentRepository) ListByProfessor(ctx context.Context, professorID int64) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id IN (
            SELECT sc.student_id FROM student_classes sc
            JOIN classes c ON c.id = sc.classes_id
            WHERE c.professor_id = $1
        ) ORDER BY name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, professorID); err != nil {
		return nil, fmt.Errorf("list professor students: %w", err)
	}
	if err := r.attachClasses(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListByClass returns the students enrolled in one class, ordered by
// name. Used by the roster export; no class decoration is attached.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id IN (
            SELECT student_id FROM student_classes WHERE classes_id = $1
        ) ORDER BY name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}

// FindByID returns a student with its classes attached.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	students := []models.Student{student}
	if err := r.attachClasses(ctx, students); err != nil {
		return nil, err
	}
	return &students[0], nil
}

// CreateWithEnrollments inserts the student row and one junction row per
// class id inside a single transaction. A bad class id or a duplicate
// CPF/RG rolls the whole operation back.
func (r *StudentRepository) CreateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error {
	sanitizeStudent(student)
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO students (
            name, birth_date, age, institution, grade, nationality, hometown, state,
            marital_status, profession, sex, responsible_name, responsible_contact,
            additional_responsible_name, additional_responsible_contact, cpf, rg, uf, address,
            has_health_plan, health_plan_name, uses_medication, medication_name,
            has_allergy, allergy_type, has_special_needs, special_needs_type,
            blood_type, image_authorization
        ) VALUES (
            :name, :birth_date, :age, :institution, :grade, :nationality, :hometown, :state,
            :marital_status, :profession, :sex, :responsible_name, :responsible_contact,
            :additional_responsible_name, :additional_responsible_contact, :cpf, :rg, :uf, :address,
            :has_health_plan, :health_plan_name, :uses_medication, :medication_name,
            :has_allergy, :allergy_type, :has_special_needs, :special_needs_type,
            :blood_type, :image_authorization
        ) RETURNING id, created_at`
		rows, err := sqlx.NamedQueryContext(ctx, tx, query, student)
		if err != nil {
			return fmt.Errorf("create student: %w", err)
		}
		if rows.Next() {
			err = rows.Scan(&student.ID, &student.CreatedAt)
		}
		rows.Close()
		if err != nil {
			return fmt.Errorf("scan created student: %w", err)
		}

		return insertEnrollments(ctx, tx, student.ID, classIDs)
	})
}

// UpdateWithEnrollments updates the student row, then replaces its whole
// enrollment set: all existing junction rows are deleted and one row per
// id in classIDs is inserted. An empty classIDs legally clears every
// enrollment. Atomic: update, delete-all and re-insert share one
// transaction. Returns sql.ErrNoRows when the student does not exist.
func (r *StudentRepository) UpdateWithEnrollments(ctx context.Context, student *models.Student, classIDs []int64) error {
	sanitizeStudent(student)
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE students SET
            name = :name, birth_date = :birth_date, age = :age, institution = :institution,
            grade = :grade, nationality = :nationality, hometown = :hometown, state = :state,
            marital_status = :marital_status, profession = :profession, sex = :sex,
            responsible_name = :responsible_name, responsible_contact = :responsible_contact,
            additional_responsible_name = :additional_responsible_name,
            additional_responsible_contact = :additional_responsible_contact,
            cpf = :cpf, rg = :rg, uf = :uf, address = :address,
            has_health_plan = :has_health_plan, health_plan_name = :health_plan_name,
            uses_medication = :uses_medication, medication_name = :medication_name,
            has_allergy = :has_allergy, allergy_type = :allergy_type,
            has_special_needs = :has_special_needs, special_needs_type = :special_needs_type,
            blood_type = :blood_type, image_authorization = :image_authorization
        WHERE id = :id RETURNING created_at`
		rows, err := sqlx.NamedQueryContext(ctx, tx, query, student)
		if err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		if !rows.Next() {
			rows.Close()
			return sql.ErrNoRows
		}
		err = rows.Scan(&student.CreatedAt)
		rows.Close()
		if err != nil {
			return fmt.Errorf("scan updated student: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM student_classes WHERE student_id = $1`, student.ID); err != nil {
			return fmt.Errorf("clear enrollments: %w", err)
		}

		return insertEnrollments(ctx, tx, student.ID, classIDs)
	})
}

// Delete removes the student row. Junction rows cascade at the database
// level.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func insertEnrollments(ctx context.Context, tx *sqlx.Tx, studentID int64, classIDs []int64) error {
	const query = `INSERT INTO student_classes (student_id, classes_id) VALUES ($1, $2)`
	for _, classID := range classIDs {
		if _, err := tx.ExecContext(ctx, query, studentID, classID); err != nil {
			return fmt.Errorf("enroll student %d in class %d: %w", studentID, classID, err)
		}
	}
	return nil
}

type enrollmentRef struct {
	StudentID int64  `db:"student_id"`
	ClassID   int64  `db:"id"`
	ClassName string `db:"name"`
}

// attachClasses decorates students with their enrolled classes in one
// query. Students without enrollments get an empty (non-nil) slice.
func (r *StudentRepository) attachClasses(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}

	ids := make([]int64, len(students))
	for i := range students {
		ids[i] = students[i].ID
		students[i].Classes = []models.ClassRef{}
	}

	const query = `SELECT sc.student_id, c.id, c.name FROM student_classes sc
        JOIN classes c ON c.id = sc.classes_id
        WHERE sc.student_id = ANY($1::int[]) ORDER BY c.name ASC`
	var refs []enrollmentRef
	if err := r.db.SelectContext(ctx, &refs, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load student classes: %w", err)
	}

	byStudent := make(map[int64][]models.ClassRef, len(students))
	for _, ref := range refs {
		byStudent[ref.StudentID] = append(byStudent[ref.StudentID], models.ClassRef{ID: ref.ClassID, Name: ref.ClassName})
	}
	for i := range students {
		if classes, ok := byStudent[students[i].ID]; ok {
			students[i].Classes = classes
		}
	}
	return nil
}

// sanitizeStudent normalises empty-string optional fields to NULL before
// storage so "no value" never persists as "".
func sanitizeStudent(s *models.Student) {
	optional := []**string{
		&s.BirthDate, &s.Institution, &s.Grade, &s.Nationality, &s.Hometown,
		&s.State, &s.MaritalStatus, &s.Profession, &s.Sex,
		&s.ResponsibleName, &s.ResponsibleContact,
		&s.AdditionalResponsibleName, &s.AdditionalResponsibleContact,
		&s.UF, &s.Address, &s.HealthPlanName, &s.MedicationName,
		&s.AllergyType, &s.SpecialNeedsType, &s.BloodType,
	}
	for _, field := range optional {
		if *field != nil && strings.TrimSpace(**field) == "" {
			*field = nil
		}
	}
}
