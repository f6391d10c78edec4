package pdftext

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"oposiciones/quiz-extract/internal/answerkey"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/segmenter"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{name: "default is native", input: "", wantName: ExtractorNative},
		{name: "native", input: "native", wantName: ExtractorNative},
		{name: "pdftotext any case", input: " PDFTOTEXT ", wantName: ExtractorPdftotext},
		{name: "unknown", input: "ocr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExtractor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, e.Name())
		})
	}
}

func TestMockPDFExtractor(t *testing.T) {
	mock := NewMockPDFExtractor(map[string]string{"a.pdf": "1. Q?\na) x"})
	mock.Errors["bad.pdf"] = errors.New("corrupt")
	mock.Default = "fallback"

	text, err := mock.ExtractText("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "1. Q?\na) x", text)

	_, err = mock.ExtractText("bad.pdf")
	assert.EqualError(t, err, "corrupt")

	text, err = mock.ExtractText("other.pdf")
	require.NoError(t, err)
	assert.Equal(t, "fallback", text)

	assert.Equal(t, []string{"a.pdf", "bad.pdf", "other.pdf"}, mock.Calls)
}

func TestNativeExtractor_Errors(t *testing.T) {
	dir := t.TempDir()
	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("this is not a pdf"), 0o644))

	e := NewNativeExtractor()

	_, err := e.ExtractText(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = e.ExtractText(dir)
	assert.Error(t, err)

	_, err = e.ExtractText(notPDF)
	assert.Error(t, err)
}

func TestNativeExtractor_Fixture(t *testing.T) {
	// testdata/exam.pdf positions its lines with Td and kerns the answer key
	// with TJ offsets.
	text, err := NewNativeExtractor().ExtractText(filepath.Join("testdata", "exam.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "1. What is X?\na) First option\nb) Second option\n01.a 02.b\n", text)

	questions := segmenter.Segment(text)
	require.Len(t, questions, 1)
	assert.Equal(t, models.RawQuestion{
		Number:  1,
		Text:    "What is X?",
		Options: []string{"First option", "Second option"},
	}, questions[0])
	assert.Equal(t, models.AnswerMap{1: 0, 2: 1}, answerkey.Parse(text))
}

func TestLayoutRows(t *testing.T) {
	glyph := func(s string, x, y, w float64) pdf.Text {
		return pdf.Text{FontSize: 10, X: x, Y: y, W: w, S: s}
	}

	tests := []struct {
		name  string
		texts []pdf.Text
		want  []string
	}{
		{
			name:  "empty",
			texts: nil,
			want:  nil,
		},
		{
			name: "rows ordered top to bottom",
			texts: []pdf.Text{
				glyph("a", 10, 680, 5), glyph(")", 15, 680, 3),
				glyph("1", 10, 700, 5), glyph(".", 15, 700, 2),
			},
			want: []string{"1.", "a)"},
		},
		{
			name: "gap becomes a space",
			texts: []pdf.Text{
				glyph("1", 10, 700, 5), glyph(".", 15, 700, 2),
				glyph("Q", 30, 700, 6),
			},
			want: []string{"1. Q"},
		},
		{
			name: "existing space is not doubled",
			texts: []pdf.Text{
				glyph("a", 10, 700, 5), glyph(" ", 15, 700, 3), glyph("b", 30, 700, 5),
			},
			want: []string{"a b"},
		},
		{
			name: "baseline jitter stays on one row",
			texts: []pdf.Text{
				glyph("x", 10, 700, 5), glyph("y", 15, 698.5, 5),
			},
			want: []string{"xy"},
		},
		{
			name: "line breaks from TJ are dropped",
			texts: []pdf.Text{
				glyph("0", 10, 700, 5), glyph("\n", 15, 700, 0), glyph("1", 15, 700, 5),
			},
			want: []string{"01"},
		},
		{
			name: "zero-width glyphs keep stream order",
			texts: []pdf.Text{
				glyph("o", 10, 700, 0), glyph("k", 10, 700, 0),
			},
			want: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layoutRows(tt.texts))
		})
	}
}

func TestPdftotextExtractor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "exam.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o644))

	original := pdftotextCommand
	t.Cleanup(func() { pdftotextCommand = original })

	t.Run("form feeds become newlines", func(t *testing.T) {
		pdftotextCommand = func(string) *exec.Cmd {
			return exec.Command("sh", "-c", `printf '1. Q?\na) x\f01.a\n'`)
		}
		text, err := NewPdftotextExtractor().ExtractText(file)
		require.NoError(t, err)
		assert.Equal(t, "1. Q?\na) x\n01.a\n", text)
	})

	t.Run("command failure includes stderr", func(t *testing.T) {
		pdftotextCommand = func(string) *exec.Cmd {
			return exec.Command("sh", "-c", `echo "Syntax Error" >&2; exit 1`)
		}
		_, err := NewPdftotextExtractor().ExtractText(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Syntax Error")
	})

	t.Run("missing file is not executed", func(t *testing.T) {
		called := false
		pdftotextCommand = func(string) *exec.Cmd {
			called = true
			return exec.Command("true")
		}
		_, err := NewPdftotextExtractor().ExtractText(filepath.Join(dir, "nope.pdf"))
		assert.Error(t, err)
		assert.False(t, called)
	})
}
