package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brunodmn/escola-admin-api/internal/models"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
	"github.com/brunodmn/escola-admin-api/pkg/export"
)

type rosterStudentRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Student, error)
}

// ExportService renders class rosters as PDF and the student catalog as
// CSV. It reuses the visibility rules of ClassService and StudentService:
// callers only export what they are allowed to list.
type ExportService struct {
	classes  *ClassService
	students *StudentService
	roster   rosterStudentRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService creates the service.
func NewExportService(classes *ClassService, students *StudentService, roster rosterStudentRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		classes:  classes,
		students: students,
		roster:   roster,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ClassRosterPDF renders the enrollment list of one class.
func (s *ExportService) ClassRosterPDF(ctx context.Context, caller *models.JWTClaims, classID int64) ([]byte, string, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, "", err
	}

	students, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao gerar o PDF da turma.")
	}

	data := export.Dataset{
		Headers: []string{"Nome", "CPF", "RG", "Responsável", "Contato"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Nome":        st.Name,
			"CPF":         st.CPF,
			"RG":          st.RG,
			"Responsável": deref(st.ResponsibleName),
			"Contato":     deref(st.ResponsibleContact),
		})
	}

	subtitle := fmt.Sprintf("Turno: %s | Horário: %s | Matriculados: %d", class.Shift, class.Time, len(students))
	pdf, err := s.pdf.Render(data, fmt.Sprintf("Lista de alunos - %s", class.Name), subtitle)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao gerar o PDF da turma.")
	}

	filename := fmt.Sprintf("turma-%d-alunos.pdf", class.ID)
	return pdf, filename, nil
}

// StudentsCSV exports the students visible to the caller.
func (s *ExportService) StudentsCSV(ctx context.Context, caller *models.JWTClaims) ([]byte, error) {
	students, err := s.students.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"ID", "Nome", "CPF", "RG", "Data de Nascimento", "Responsável", "Contato", "Turmas"},
	}
	for _, st := range students {
		classes := ""
		for i, ref := range st.Classes {
			if i > 0 {
				classes += "; "
			}
			classes += ref.Name
		}
		data.Rows = append(data.Rows, map[string]string{
			"ID":                 fmt.Sprintf("%d", st.ID),
			"Nome":               st.Name,
			"CPF":                st.CPF,
			"RG":                 st.RG,
			"Data de Nascimento": deref(st.BirthDate),
			"Responsável":        deref(st.ResponsibleName),
			"Contato":            deref(st.ResponsibleContact),
			"Turmas":             classes,
		})
	}

	csv, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Erro interno ao gerar o CSV de estudantes.")
	}
	return csv, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
