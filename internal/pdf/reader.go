package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the text of each page of a PDF, one string per page
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// PageTexts returns the text of every page in order. A page whose text
// cannot be decoded is returned as an empty string so callers can report
// it without losing the remaining pages. The file handle is always closed.
func (r *Reader) PageTexts(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := checkFileInfo(path, fileInfo, r.maxFileSize); err != nil {
		return nil, err
	}

	f, pdfReader, err := openPDF(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := pdfReader.NumPage()
	pages := make([]string, numPages)
	totalLength := 0
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := r.pageText(pdfReader, pageNum)
		if totalLength+len(text) > r.maxTextSize {
			return nil, fmt.Errorf("extracted text exceeds %d bytes at page %d", r.maxTextSize, pageNum)
		}
		totalLength += len(text)
		pages[pageNum-1] = text
	}

	return pages, nil
}

// openPDF wraps pdf.Open, which panics on some malformed trailers
func openPDF(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// pageText returns the text of one page with rows in reading order.
// It falls back to the plain text stream when row grouping yields nothing.
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		// Recover from decoder panics on damaged content streams
		if recover() != nil {
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	if rows, err := page.GetTextByRow(); err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row.Content))
		}
		if text := strings.Join(lines, "\n"); strings.TrimSpace(text) != "" {
			return text
		}
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return plain
}

// joinRow concatenates the glyph runs of one row. A space is inserted when
// the horizontal gap between runs is wider than a quarter of the font size,
// so "代理 星河 商标" keeps its separators even when the PDF draws no
// space glyphs.
func joinRow(runs pdf.TextHorizontal) string {
	var b strings.Builder
	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := run.X - (prev.X + prev.W)
			if gap > prev.FontSize/4 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(run.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(run.S)
	}
	return b.String()
}

// checkFileInfo performs basic validation on file info without opening the PDF
func checkFileInfo(filePath string, fileInfo os.FileInfo, maxFileSize int64) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !isPDFFile(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	return nil
}

// isPDFFile checks if a file name has a PDF extension
func isPDFFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
