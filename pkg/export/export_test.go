package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:   "Platform statistics",
		Summary: []Field{{Label: "Total users", Value: "4"}},
		Headers: []string{"Category", "Applications"},
		Rows:    [][]string{{"Full fund", "3"}, {"Partial", "1"}},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "Total users,4\n\nCategory,Applications\nFull fund,3\nPartial,1\n", string(out))
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	report := sampleReport()
	report.Rows = append(report.Rows, []string{"only one"})
	_, err := NewCSVExporter().Render(report)
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	_, err = ForFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
