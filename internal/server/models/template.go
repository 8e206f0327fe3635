package models

import "time"

// Template is a firm-specific letter template that guides AI generation.
// Sections holds the raw JSON sections configuration as authored.
type Template struct {
	ID               string
	FirmID           string
	Name             string
	LetterheadText   string
	OpeningParagraph string
	ClosingParagraph string
	Sections         []byte
	IsDefault        bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
