package models

import "time"

// Letter lifecycle statuses. A letter starts as a draft and becomes
// "created" after its first successful finalize; both finalize and export
// remain valid from either status.
const (
	StatusDraft   = "draft"
	StatusCreated = "created"
)

// Letter is an AI-generated demand letter. Content holds HTML; the exported
// .docx artifact lives in object storage under DocxStorageKey.
type Letter struct {
	ID             string
	FirmID         string
	CreatedBy      string
	Title          string
	Content        string
	Status         string
	TemplateID     string
	DocxStorageKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
