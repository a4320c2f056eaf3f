// Package pdf renders markdown report documents to PDF for the
// download endpoints.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Service implements interfaces.PDFService
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// ConvertMarkdownToPDF converts markdown content to a PDF byte slice.
// The title goes into the document metadata; the visible title is
// expected to be the markdown's own H1.
func (s *Service) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Converting markdown to PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &renderer{pdf: pdf, source: source}
	if err := ast.Walk(doc, renderer.walk); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated successfully")
	return buf.Bytes(), nil
}

// renderer walks the markdown AST and writes flowing text into the PDF.
// Inline styling tracks bold/italic nesting; block nodes control
// spacing and font size.
type renderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	bold   int
	italic int
	inCode bool
}

const (
	bodySize    = 10
	lineHeight  = 5
	listIndent  = 6
	headingGap  = 2.5
	sectionGap  = 3
)

func (r *renderer) setFont(size float64) {
	style := ""
	if r.bold > 0 {
		style += "B"
	}
	if r.italic > 0 {
		style += "I"
	}
	font := "Arial"
	if r.inCode {
		font = "Courier"
	}
	r.pdf.SetFont(font, style, size)
}

func (r *renderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(sectionGap)
			r.bold++
			r.setFont(headingSize(node.Level))
		} else {
			r.bold--
			r.pdf.Ln(lineHeight + headingGap)
			r.setFont(bodySize)
		}

	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(lineHeight + headingGap)
		}

	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.write(" ")
			}
		}

	case *ast.Emphasis:
		if node.Level >= 2 {
			r.toggle(&r.bold, entering)
		} else {
			r.toggle(&r.italic, entering)
		}

	case *ast.CodeSpan:
		r.inCode = entering
		r.setFont(bodySize)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			r.inCode = true
			r.setFont(9)
			r.writeCodeLines(n)
		} else {
			r.inCode = false
			r.setFont(bodySize)
			r.pdf.Ln(headingGap)
		}
		return ast.WalkSkipChildren, nil

	case *ast.ListItem:
		if entering {
			r.pdf.SetX(r.pdf.GetX() + listIndent)
			r.write("- ")
		} else {
			r.pdf.Ln(lineHeight)
		}

	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(sectionGap)
			x, y := r.pdf.GetXY()
			pageWidth, _ := r.pdf.GetPageSize()
			r.pdf.Line(x, y, pageWidth-12, y)
			r.pdf.Ln(sectionGap)
		}

	case *extast.Table:
		if entering {
			r.renderTable(node)
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link, *ast.AutoLink:
		// rendered as plain text; the link target is dropped
	}

	return ast.WalkContinue, nil
}

func (r *renderer) toggle(counter *int, entering bool) {
	if entering {
		*counter++
	} else {
		*counter--
	}
	r.setFont(bodySize)
}

func (r *renderer) write(text string) {
	if text == "" {
		return
	}
	r.pdf.Write(lineHeight, text)
}

func (r *renderer) writeCodeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		r.pdf.Write(lineHeight, strings.TrimRight(string(segment.Value(r.source)), "\n"))
		r.pdf.Ln(lineHeight)
	}
}

// renderTable draws a table as fixed-width cells. Wide tables degrade
// gracefully: text is clipped per cell rather than wrapped.
func (r *renderer) renderTable(table *extast.Table) {
	pageWidth, _ := r.pdf.GetPageSize()
	usable := pageWidth - 24

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cols := countChildren(row)
		if cols == 0 {
			continue
		}
		colWidth := usable / float64(cols)

		_, header := row.(*extast.TableHeader)
		if header {
			r.bold++
			r.setFont(bodySize)
		}

		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.pdf.CellFormat(colWidth, lineHeight+1.5, cellText(cell, r.source), "1", 0, "L", false, 0, "")
		}
		r.pdf.Ln(lineHeight + 1.5)

		if header {
			r.bold--
			r.setFont(bodySize)
		}
	}
	r.pdf.Ln(headingGap)
}

func countChildren(n ast.Node) int {
	count := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		count++
	}
	return count
}

func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 13
	case 3:
		return 11.5
	default:
		return 10.5
	}
}
