package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf16"

	"intake-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApplication() *models.Application {
	return &models.Application{
		ID:         7,
		SchemeID:   1,
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "555-0100",
		Status:     models.StatusApproved,
		AppliedAt:  time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		SchemeName: "Post-Matric Scholarship",
	}
}

// utf16Text is how fpdf writes a string drawn with a UTF-8 font: UTF-16BE
// without a byte order mark.
func utf16Text(s string) string {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return string(b)
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := NewGenerator(time.UTC).Render(&buf, sampleApplication())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestRenderUncompressedContainsFields(t *testing.T) {
	var buf bytes.Buffer
	err := NewGenerator(time.UTC).WithoutCompression().Render(&buf, sampleApplication())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, Title)
	assert.Contains(t, out, ClosingNote)
	for _, want := range []string{
		"Application ID: 7",
		"Name: Asha Rao",
		"Scheme: Post-Matric Scholarship",
		"Status: Approved",
		"Applied On: 1/2/2026, 3:04:05 PM",
	} {
		assert.Contains(t, out, utf16Text(want))
	}
}

func TestRenderKeepsNonLatinFields(t *testing.T) {
	app := sampleApplication()
	app.Name = "आशा राव"
	app.SchemeName = "Пенсия"

	var buf bytes.Buffer
	require.NoError(t, NewGenerator(time.UTC).WithoutCompression().Render(&buf, app))

	out := buf.String()
	assert.Contains(t, out, utf16Text("Name: आशा राव"))
	assert.Contains(t, out, utf16Text("Scheme: Пенсия"))
	assert.NotContains(t, out, "Name: ?")
}

func TestLoadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.ttf")
	require.NoError(t, os.WriteFile(path, defaultBodyFont, 0o600))

	ttf, err := LoadFont(path)
	require.NoError(t, err)
	assert.Equal(t, len(defaultBodyFont), len(ttf))

	_, err = LoadFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
}

func TestLinesOrder(t *testing.T) {
	lines := NewGenerator(time.UTC).Lines(sampleApplication())

	assert.Equal(t, []string{
		"Application ID: 7",
		"Name: Asha Rao",
		"Email: asha@example.com",
		"Phone: 555-0100",
		"Scheme: Post-Matric Scholarship",
		"Status: Approved",
		"Applied On: 1/2/2026, 3:04:05 PM",
	}, lines)
}

func TestFormatAppliedOnUsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got := NewGenerator(loc).FormatAppliedOn(time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, "1/3/2026, 1:30:00 AM", got)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "application_12.pdf", Filename(12))
}
