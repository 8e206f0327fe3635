package htmldocx

import (
	"regexp"
	"time"
)

const (
	filenamePrefix = "Demand_Letter_"
	filenameExt    = ".docx"
	maxFilenameLen = 50
)

var (
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9\s_-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Filename derives the export filename for a letter:
// "Demand_Letter_<sanitized title>_<YYYY-MM-DD>.docx". The title keeps only
// alphanumerics, whitespace, underscores and hyphens; whitespace runs become
// single underscores. The result is at most 50 characters and always ends in
// ".docx"; when the title cannot fit it is truncated, or dropped entirely.
// A zero timestamp falls back to the current UTC time. The function is pure
// and deterministic given identical inputs.
func Filename(title string, ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	date := ts.Format("2006-01-02")

	sanitized := unsafeChars.ReplaceAllString(title, "")
	sanitized = whitespaceRun.ReplaceAllString(sanitized, "_")

	name := filenamePrefix + sanitized + "_" + date + filenameExt
	if len(name) <= maxFilenameLen {
		return name
	}

	maxTitle := maxFilenameLen - len(filenamePrefix) - len(date) - 1 - len(filenameExt)
	if maxTitle <= 0 {
		return filenamePrefix + date + filenameExt
	}
	return filenamePrefix + sanitized[:maxTitle] + "_" + date + filenameExt
}
