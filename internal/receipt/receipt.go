// Package receipt renders an application as a one-page PDF receipt.
package receipt

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"intake-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	Title       = "Government Scheme Application Receipt"
	ClosingNote = "Retain this for your records."

	appliedOnLayout = "1/2/2006, 3:04:05 PM"
	bodyFamily      = "ReceiptBody"
)

// defaultBodyFont covers Latin, Greek, Cyrillic, Arabic and Hebrew. Scripts
// outside it keep their text in the PDF but need WithFont to show glyphs.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultBodyFont []byte

type Generator struct {
	location *time.Location
	compress bool
	bodyFont []byte
}

// NewGenerator formats timestamps in loc; a nil loc means time.Local.
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{location: loc, compress: true, bodyFont: defaultBodyFont}
}

// WithoutCompression leaves page streams readable. Used by tests.
func (g *Generator) WithoutCompression() *Generator {
	g.compress = false
	return g
}

// WithFont draws the applicant fields with the given TrueType font instead
// of the embedded one.
func (g *Generator) WithFont(ttf []byte) *Generator {
	if len(ttf) > 0 {
		g.bodyFont = ttf
	}
	return g
}

// LoadFont reads a TrueType file and checks that a receipt can be laid out
// with it.
func LoadFont(path string) ([]byte, error) {
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt font: %w", err)
	}
	g := NewGenerator(time.UTC).WithFont(ttf)
	if err := g.Render(io.Discard, &models.Application{Name: "font check"}); err != nil {
		return nil, fmt.Errorf("receipt font %s: %w", path, err)
	}
	return ttf, nil
}

func Filename(id int64) string {
	return fmt.Sprintf("application_%d.pdf", id)
}

func (g *Generator) FormatAppliedOn(t time.Time) string {
	return t.In(g.location).Format(appliedOnLayout)
}

// Lines returns the body lines in print order.
func (g *Generator) Lines(app *models.Application) []string {
	return []string{
		"Application ID: " + strconv.FormatInt(app.ID, 10),
		"Name: " + app.Name,
		"Email: " + app.Email,
		"Phone: " + app.Phone,
		"Scheme: " + app.SchemeName,
		"Status: " + string(app.Status),
		"Applied On: " + g.FormatAppliedOn(app.AppliedAt),
	}
}

// Render writes the receipt to w. Output is produced in one pass once the
// layout is complete, so a layout error never reaches w.
func (g *Generator) Render(w io.Writer, app *models.Application) (err error) {
	// fpdf panics on font data it cannot parse.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout receipt: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("intake-backend", true)
	pdf.AddUTF8FontFromBytes(bodyFamily, "", g.bodyFont)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(bodyFamily, "", 14)
	for _, line := range g.Lines(app) {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, ClosingNote, "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout receipt: %w", err)
	}
	return pdf.Output(w)
}
