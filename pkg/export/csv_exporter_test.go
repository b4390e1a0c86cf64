package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderOrdersColumnsByHeader(t *testing.T) {
	data := Dataset{
		Headers: []string{"Nome", "CPF"},
		Rows: []map[string]string{
			{"CPF": "11122233344", "Nome": "Pedro"},
			{"Nome": "Ana"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Nome,CPF\nPedro,11122233344\nAna,\n", string(out))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"Nome"},
		Rows:    []map[string]string{{"Nome": "Pedro"}},
	}

	out, err := NewPDFExporter().Render(data, "Lista de alunos", "Turno: manhã")
	require.NoError(t, err)
	assert.Greater(t, len(out), 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}
