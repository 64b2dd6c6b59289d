package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// maxFilenameRunes leaves room for an extension within 255 bytes.
const maxFilenameRunes = 200

// SanitizeFilename makes a book title safe to use as a stored filename.
// Path separators and control characters are dropped, whitespace is
// collapsed and the result is never empty.
func SanitizeFilename(filename string) string {
	// Tabs and newlines become spaces before the control range is stripped
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	if utf8.RuneCountInString(filename) > maxFilenameRunes {
		filename = strings.TrimSpace(string([]rune(filename)[:maxFilenameRunes]))
	}

	// Leading dots would hide the file or walk up a directory
	filename = strings.TrimLeft(filename, ".")

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}
