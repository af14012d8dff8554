package extractor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// ErrUnreadable marks a statement that cannot be opened at all: corrupt
// file, or a missing/wrong password. This is fatal for the file. A single
// page yielding no text is NOT this error; such pages are skipped.
var ErrUnreadable = errors.New("statement unreadable")

// ExtractLines reads a PDF and returns the text of each page as a slice of
// trimmed lines, page order preserved. password may be empty for
// unprotected statements. Pages without extractable text are logged and
// skipped; the document only fails when it cannot be opened.
func ExtractLines(log zerolog.Logger, filePath, password string) (pages [][]string, err error) {
	// The pdf library can panic on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf library crashed: %v", ErrUnreadable, r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	// The password callback is consulted repeatedly until it returns "";
	// offer the stored password once, then give up.
	asked := false
	reader, err := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		if asked || password == "" {
			return ""
		}
		asked = true
		return password
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadable)
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			log.Warn().Int("page", i).Msg("page has no content, skipping")
			continue
		}
		lines := pageLines(page)
		if len(lines) == 0 {
			log.Warn().Int("page", i).Msg("page has no extractable text, skipping")
			continue
		}
		pages = append(pages, lines)
	}

	return pages, nil
}

// pageLines reconstructs the text rows of one page, one line per row.
func pageLines(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Flatten joins per-page line slices into the single ordered line list the
// bank parsers consume.
func Flatten(pages [][]string) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, page...)
	}
	return lines
}
