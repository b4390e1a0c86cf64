package models

import "time"

// Class represents a school class. ProfessorID is a weak reference: a
// class may exist unassigned, and deleting the professor nulls it out.
type Class struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Shift             string    `db:"shift" json:"shift"`
	Time              string    `db:"time" json:"time"`
	NumberOfVacancies int       `db:"number_of_vacancies" json:"number_of_vacancies"`
	ProfessorID       *int64    `db:"professor_id" json:"professor_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// ClassRef is the compact shape used to decorate students with their
// enrolled classes.
type ClassRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
