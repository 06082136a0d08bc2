package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/kathalab/lesson-api/internal/domain"
)

// Format is an export file type.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

var (
	// ErrUnsupportedFormat is returned for any format other than pdf or md.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNilLesson is returned when Export is called without a lesson.
	ErrNilLesson = errors.New("lesson cannot be nil")
)

// ParseFormat maps a query value to a Format. An empty value selects PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Document is a rendered export ready to be written to an HTTP response.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Config controls PDF page layout.
type Config struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
	// UTF8FontPath optionally points at a TrueType font with coverage for
	// non-Latin scripts. Without it the PDF uses a core font and characters
	// outside Windows-1252 are replaced.
	UTF8FontPath string
}

// DefaultConfig is an A4 page with 15mm margins in Helvetica.
func DefaultConfig() Config {
	return Config{PageSize: "A4", MarginsMM: 15, FontFamily: "Helvetica"}
}

// Exporter renders lessons to documents.
type Exporter struct {
	cfg Config
}

// NewExporter creates an Exporter, filling unset layout fields from DefaultConfig.
func NewExporter(cfg Config) *Exporter {
	def := DefaultConfig()
	if cfg.PageSize == "" {
		cfg.PageSize = def.PageSize
	}
	if cfg.MarginsMM <= 0 {
		cfg.MarginsMM = def.MarginsMM
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = def.FontFamily
	}
	return &Exporter{cfg: cfg}
}

// Export renders lesson in the requested format.
func (e *Exporter) Export(lesson *domain.Lesson, format Format) (*Document, error) {
	if lesson == nil {
		return nil, ErrNilLesson
	}
	o := buildOutline(lesson)
	stem := slug(lesson.Topic)

	switch format {
	case FormatMarkdown:
		return &Document{
			Filename:    stem + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Body:        []byte(renderMarkdown(o)),
		}, nil
	case FormatPDF:
		body, err := e.renderPDF(o, lesson)
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    stem + ".pdf",
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (e *Exporter) renderPDF(o outline, lesson *domain.Lesson) ([]byte, error) {
	pdf := fpdf.New("P", "mm", e.cfg.PageSize, "")
	pdf.SetMargins(e.cfg.MarginsMM, e.cfg.MarginsMM, e.cfg.MarginsMM)
	pdf.SetAutoPageBreak(true, e.cfg.MarginsMM)
	pdf.SetCreationDate(lesson.CreatedAt)

	family := e.cfg.FontFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if e.cfg.UTF8FontPath != "" {
		family = "lesson"
		pdf.AddUTF8Font(family, "", e.cfg.UTF8FontPath)
		pdf.AddUTF8Font(family, "B", e.cfg.UTF8FontPath)
		tr = func(s string) string { return s }
	}

	pdf.SetTitle(o.Title, true)
	pdf.SetSubject(lesson.Topic, true)
	pdf.SetCreator("lesson-api", false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ---------- title ----------
	pdf.SetFont(family, "B", 20)
	pdf.MultiCell(0, 10, tr(o.Title), "", "C", false)
	pdf.SetFont(family, "", 10)
	pdf.MultiCell(0, 6, tr(o.Subtitle), "", "C", false)
	pdf.Ln(6)

	// ---------- sections ----------
	for _, s := range o.Sections {
		pdf.SetFont(family, "B", 14)
		pdf.MultiCell(0, 8, tr(s.Heading), "", "L", false)
		for _, b := range s.Blocks {
			if b.Subheading != "" {
				pdf.SetFont(family, "B", 11)
				pdf.MultiCell(0, 6, tr(b.Subheading), "", "L", false)
			}
			pdf.SetFont(family, "", 11)
			if b.Text != "" {
				pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
			}
			for i, item := range b.Items {
				pdf.MultiCell(0, 6, tr(bullet(i, b.Numbered)+item), "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func bullet(i int, numbered bool) string {
	if numbered {
		return fmt.Sprintf("%d. ", i+1)
	}
	return "- "
}

func renderMarkdown(o outline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", o.Title)
	fmt.Fprintf(&b, "_%s_\n\n", o.Subtitle)
	if o.ImageURL != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", o.Title, o.ImageURL)
	}
	for _, s := range o.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Heading)
		for _, blk := range s.Blocks {
			if blk.Subheading != "" {
				fmt.Fprintf(&b, "### %s\n\n", blk.Subheading)
			}
			if blk.Text != "" {
				// Markdown needs two trailing spaces for a hard line break
				// inside a paragraph; rhymes rely on it.
				b.WriteString(strings.ReplaceAll(blk.Text, "\n", "  \n"))
				b.WriteString("\n\n")
			}
			for i, item := range blk.Items {
				b.WriteString(bullet(i, blk.Numbered))
				b.WriteString(item)
				b.WriteString("\n")
			}
			if len(blk.Items) > 0 {
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
