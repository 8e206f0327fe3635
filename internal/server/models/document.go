package models

import "time"

// Document is an uploaded source document (medical record, police report,
// bill). ExtractedText is populated at upload time; letter generation reads
// it instead of re-parsing the original file.
type Document struct {
	ID            string
	FirmID        string
	Filename      string
	FileSize      int64
	ExtractedText string
	UploadedAt    time.Time
}
