package pdftext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor reads the embedded text layer with github.com/ledongthuc/pdf.
// Scanned (image-only) PDFs yield no text.
type NativeExtractor struct{}

// NewNativeExtractor creates a new NativeExtractor instance.
func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

// Name returns "native".
func (e *NativeExtractor) Name() string {
	return ExtractorNative
}

// ExtractText extracts the text of every page, one line per text row.
func (e *NativeExtractor) ExtractText(pdfPath string) (text string, err error) {
	if err := checkReadable(pdfPath); err != nil {
		return "", err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageLines(page)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// pageLines renders a page row by row from the positioned glyphs. Pages
// without positioned text fall back to the plain content stream text.
func pageLines(page pdf.Page) (string, error) {
	rows := layoutRows(page.Content().Text)
	if len(rows) == 0 {
		return page.GetPlainText(nil)
	}
	return strings.Join(rows, "\n"), nil
}

// layoutRows groups glyphs into visual rows, top to bottom, and joins each
// row left to right. Glyphs whose baselines are within half a font size share
// a row; a horizontal gap wider than wordGap of the font size becomes a space.
func layoutRows(texts []pdf.Text) []string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || strings.ContainsAny(t.S, "\r\n") {
			continue
		}
		glyphs = append(glyphs, t)
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var rows [][]pdf.Text
	rowY := math.Inf(1)
	for _, g := range glyphs {
		if len(rows) == 0 || rowY-g.Y > rowTolerance(g) {
			rows = append(rows, nil)
			rowY = g.Y
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], g)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		lines = append(lines, joinRow(row))
	}
	return lines
}

const wordGap = 0.2

func joinRow(row []pdf.Text) string {
	var sb strings.Builder
	for i, g := range row {
		if i > 0 {
			prev := row[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > wordGap*fontSize(g) && !isSpace(prev.S) && !isSpace(g.S) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.S)
	}
	return strings.TrimRight(sb.String(), " ")
}

func rowTolerance(g pdf.Text) float64 {
	return fontSize(g) / 2
}

func fontSize(g pdf.Text) float64 {
	if g.FontSize < 1 {
		return 1
	}
	return g.FontSize
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}
