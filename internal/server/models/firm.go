package models

import "time"

// Firm is the tenant boundary: every letter, template, document and user
// belongs to exactly one firm.
type Firm struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
