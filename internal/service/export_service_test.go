package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

type mockRosterRepo struct {
	students []models.Student
}

func (m *mockRosterRepo) ListByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	return m.students, nil
}

func TestStudentsCSVScopedByCaller(t *testing.T) {
	repo := &mockStudentRepo{byProfessor: []models.Student{{
		ID:      1,
		Name:    "Pedro",
		CPF:     "11122233344",
		RG:      "123456",
		Classes: []models.ClassRef{{ID: 1, Name: "Turma A"}, {ID: 2, Name: "Turma B"}},
	}}}
	students := NewStudentService(repo, nil, nil, nil)
	svc := NewExportService(nil, students, &mockRosterRepo{}, nil)

	out, err := svc.StudentsCSV(context.Background(), professor(4))
	require.NoError(t, err)

	csv := string(out)
	assert.True(t, strings.HasPrefix(csv, "ID,Nome,CPF,RG"))
	assert.Contains(t, csv, "Pedro")
	assert.Contains(t, csv, "Turma A; Turma B")
	assert.Equal(t, int64(4), repo.byProfID)
}

func TestClassRosterPDF(t *testing.T) {
	classRepo := &mockClassRepo{classByID: &models.Class{ID: 2, Name: "Turma A", Shift: "manhã", Time: "08:00"}}
	classes := NewClassService(classRepo, nil, nil, nil)
	roster := &mockRosterRepo{students: []models.Student{{ID: 1, Name: "Pedro", CPF: "11122233344", RG: "123456"}}}
	svc := NewExportService(classes, nil, roster, nil)

	pdf, filename, err := svc.ClassRosterPDF(context.Background(), admin(1), 2)
	require.NoError(t, err)
	assert.Equal(t, "turma-2-alunos.pdf", filename)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
