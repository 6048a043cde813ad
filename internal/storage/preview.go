package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// PreviewSeparator joins preview lines.
	PreviewSeparator = " | "

	// maxFirstLineRunes bounds the search preview line.
	maxFirstLineRunes = 100

	emptyFilePlaceholder  = "(empty file)"
	unreadablePlaceholder = "(unable to read)"
	emptyLinePlaceholder  = "(empty)"

	// previewChunkSize is how much of a file is read and validated at a time.
	previewChunkSize = 8192
)

// PreviewStatus classifies the outcome of reading a preview.
type PreviewStatus int

const (
	PreviewOK PreviewStatus = iota
	PreviewEmpty
	PreviewUnreadable
)

// Preview is the outcome of reading the leading lines of a file.
type Preview struct {
	Text   string
	Status PreviewStatus
	Err    error // set when Status is PreviewUnreadable
}

// String renders the preview for display, substituting placeholders for
// empty and unreadable files.
func (p Preview) String() string {
	switch p.Status {
	case PreviewEmpty:
		return emptyFilePlaceholder
	case PreviewUnreadable:
		return unreadablePlaceholder
	default:
		return p.Text
	}
}

// ReadPreview reads up to maxLines lines of path, trims trailing whitespace on
// each and joins them with PreviewSeparator. "\n", "\r\n" and a lone "\r"
// all end a line. The file is read in chunks of previewChunkSize and every
// chunk read must be valid UTF-8, even past the last line shown.
func ReadPreview(path string, maxLines int) Preview {
	f, err := os.Open(path)
	if err != nil {
		return Preview{Status: PreviewUnreadable, Err: err}
	}
	defer f.Close()

	var text strings.Builder
	chunk := make([]byte, previewChunkSize)
	var carry []byte // incomplete rune at the end of the previous chunk
	for {
		n, err := io.ReadFull(f, chunk)
		eof := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !eof {
			return Preview{Status: PreviewUnreadable, Err: err}
		}

		data := append(carry, chunk[:n]...)
		carry = nil
		if !eof {
			data, carry = splitIncompleteRune(data)
		}
		if !utf8.Valid(data) {
			return Preview{Status: PreviewUnreadable, Err: ErrNotText}
		}
		text.Write(data)

		if eof || haveLines(text.String(), maxLines) {
			break
		}
	}

	lines := splitLines(normalizeNewlines(text.String()))
	if len(lines) > maxLines {
		lines = lines[:max(0, maxLines)]
	}
	if len(lines) == 0 {
		return Preview{Status: PreviewEmpty}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return Preview{Text: strings.Join(lines, PreviewSeparator), Status: PreviewOK}
}

// splitIncompleteRune moves a multi-byte rune cut off at the end of data
// into tail so it can be completed by the next chunk.
func splitIncompleteRune(data []byte) (head, tail []byte) {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				return data[:i], append([]byte(nil), data[i:]...)
			}
			break
		}
	}
	return data, nil
}

// haveLines reports whether s already holds n complete lines. A trailing
// "\r" may be the first half of "\r\n" and is not counted yet.
func haveLines(s string, n int) bool {
	s = strings.TrimSuffix(s, "\r")
	return strings.Count(normalizeNewlines(s), "\n") >= n
}

// normalizeNewlines rewrites "\r\n" and lone "\r" as "\n".
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitLines splits normalised text into lines. A final newline does not
// start another line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// ReadContent reads the whole file as UTF-8 text with newlines normalised to "\n".
func ReadContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return normalizeNewlines(string(data)), nil
}

// FirstLine returns the first line of content cut to 100 characters, or
// "(empty)" for empty content.
func FirstLine(content string) string {
	if content == "" {
		return emptyLinePlaceholder
	}
	line, _, _ := strings.Cut(content, "\n")
	if utf8.RuneCountInString(line) > maxFirstLineRunes {
		runes := []rune(line)
		line = string(runes[:maxFirstLineRunes])
	}
	return line
}
