package renderer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

const (
	inch         = 72.0
	maxItemLines = 5
	maxDescLines = 3
	wrapWidth    = 60
)

// PDFRenderer draws certificate PDFs. Render is a pure function of the
// request; the renderer holds only immutable layout configuration.
type PDFRenderer struct {
	pageSize string
	log      zerolog.Logger
}

// New builds a renderer for the configured page size (Letter or A4).
func New(cfg *config.Config, log zerolog.Logger) *PDFRenderer {
	return &PDFRenderer{
		pageSize: cfg.PageSize,
		log:      log.With().Str("component", "pdf-renderer").Logger(),
	}
}

// Render produces the certificate PDF for the request.
func (r *PDFRenderer) Render(req *certificate.Request) ([]byte, error) {
	issued := time.Now().UTC()
	if req.IssuedDate != nil {
		issued = req.IssuedDate.UTC()
	}

	pdf := fpdf.New("P", "pt", r.pageSize, "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	// Pinning the creation date keeps output a pure function of the request
	// when an issue date is supplied.
	pdf.SetCreationDate(issued)
	pdf.SetModificationDate(issued)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()

	r.drawBorder(pdf, pageW, pageH)

	switch req.Kind {
	case certificate.KindCourse:
		r.drawHeading(pdf, tr, pageW, "Certificate of Achievement", req)
		r.centerText(pdf, pageW, 5.6*inch, "Helvetica", "", 14, tr("has successfully completed this course"))
		r.drawDescription(pdf, tr, pageW, req.Description)
	case certificate.KindAchievement:
		r.drawHeading(pdf, tr, pageW, "Certificate of Achievement", req)
		r.centerText(pdf, pageW, 5.6*inch, "Helvetica", "", 14, tr("in recognition of outstanding achievement"))
		r.drawDescription(pdf, tr, pageW, req.Description)
	default: // track
		r.drawHeading(pdf, tr, pageW, "Certificate of Completion", req)
		r.centerText(pdf, pageW, 5.6*inch, "Helvetica", "", 14, tr("has successfully completed all courses in this track"))
		r.drawItems(pdf, tr, pageW, req.ItemsCompleted)
	}

	r.drawFooter(pdf, tr, pageW, pageH, req, issued)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawBorder(pdf *fpdf.Fpdf, pageW, pageH float64) {
	pdf.SetDrawColor(44, 82, 130)
	pdf.SetLineWidth(3)
	pdf.Rect(0.5*inch, 0.5*inch, pageW-inch, pageH-inch, "D")
	pdf.SetLineWidth(1)
	pdf.Rect(0.6*inch, 0.6*inch, pageW-1.2*inch, pageH-1.2*inch, "D")
}

func (r *PDFRenderer) drawHeading(pdf *fpdf.Fpdf, tr func(string) string, pageW float64, heading string, req *certificate.Request) {
	presentedAs := "This certifies that"
	if req.Kind == certificate.KindAchievement {
		presentedAs = "Awarded to"
	}

	r.centerText(pdf, pageW, 2.5*inch, "Helvetica", "B", 32, heading)
	r.centerText(pdf, pageW, 3.2*inch, "Helvetica", "", 20, tr(req.Title))
	r.centerText(pdf, pageW, 4.2*inch, "Helvetica", "", 16, presentedAs)

	pdf.SetTextColor(44, 82, 130)
	r.centerText(pdf, pageW, 4.8*inch, "Helvetica", "B", 24, tr(req.UserName))
	pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) drawItems(pdf *fpdf.Fpdf, tr func(string) string, pageW float64, items []string) {
	if len(items) == 0 {
		return
	}
	y := 6.4 * inch
	r.centerText(pdf, pageW, y, "Helvetica", "", 12, "Courses Completed:")
	y += 0.3 * inch

	shown := items
	if len(shown) > maxItemLines {
		shown = shown[:maxItemLines]
	}
	for _, item := range shown {
		r.centerText(pdf, pageW, y, "Helvetica", "", 11, tr("- "+item))
		y += 0.25 * inch
	}
	if extra := len(items) - maxItemLines; extra > 0 {
		r.centerText(pdf, pageW, y, "Helvetica", "", 11, fmt.Sprintf("... and %d more", extra))
	}
}

func (r *PDFRenderer) drawDescription(pdf *fpdf.Fpdf, tr func(string) string, pageW float64, description string) {
	if description == "" {
		return
	}
	y := 6.4 * inch
	lines := wrapText(description, wrapWidth)
	if len(lines) > maxDescLines {
		lines = lines[:maxDescLines]
	}
	for _, line := range lines {
		r.centerText(pdf, pageW, y, "Helvetica", "", 12, tr(line))
		y += 0.25 * inch
	}
}

func (r *PDFRenderer) drawFooter(pdf *fpdf.Fpdf, tr func(string) string, pageW, pageH float64, req *certificate.Request, issued time.Time) {
	r.centerText(pdf, pageW, pageH-2*inch, "Helvetica", "", 12, "Issued on "+issued.Format("January 2, 2006"))

	pdf.SetTextColor(106, 106, 106)
	r.centerText(pdf, pageW, pageH-1.5*inch, "Helvetica", "", 10, tr("Certificate ID: "+req.CertificateID))
	r.centerText(pdf, pageW, pageH-1.2*inch, "Helvetica", "", 10, "Verify at: tracks.microlearn.university/verify")
	pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) centerText(pdf *fpdf.Fpdf, pageW, y float64, family, style string, size float64, text string) {
	pdf.SetFont(family, style, size)
	pdf.SetXY(0, y)
	pdf.CellFormat(pageW, size+4, text, "", 0, "C", false, 0, "")
}

func wrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	var lines []string
	var current []string
	length := 0

	for _, word := range words {
		if length+len(word)+1 <= maxChars {
			current = append(current, word)
			length += len(word) + 1
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
		length = len(word)
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
