// Package preview extracts plain text from documents before they are
// submitted for verification.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupported is returned for files that have no text representation,
// such as images.
var ErrUnsupported = errors.New("preview not supported for this file type")

// Text returns the plain text of a PDF, DOCX or text file. The format is
// picked by extension and falls back to content sniffing.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDFText(data)
	case ".docx":
		return DocxText(data)
	case ".txt", ".md":
		return string(data), nil
	}
	ctype := http.DetectContentType(data)
	switch {
	case ctype == "application/pdf":
		return PDFText(data)
	case strings.HasPrefix(ctype, "text/plain"):
		return string(data), nil
	}
	return "", fmt.Errorf("%s (%s): %w", filename, ctype, ErrUnsupported)
}

// PDFText reads PDF bytes page by page.
func PDFText(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("new pdf reader: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// DocxText returns the text runs of a DOCX document, one paragraph per line.
func DocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return bodyText(doc.Editable().GetContent()), nil
}

// bodyText flattens WordprocessingML to text with entities decoded.
func bodyText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	return strings.TrimSpace(html.UnescapeString(xmlTag.ReplaceAllString(content, "")))
}

// Snippet collapses whitespace and truncates text to at most n runes.
func Snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
