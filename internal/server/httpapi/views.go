package httpapi

import (
	"encoding/json"
	"time"

	"github.com/lexdraft/lexdraft/internal/server/models"
)

// LetterView is the wire representation of a letter. The storage key stays
// internal; clients get download URLs instead.
type LetterView struct {
	ID         string    `json:"id"`
	FirmID     string    `json:"firm_id"`
	CreatedBy  string    `json:"created_by,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	TemplateID string    `json:"template_id,omitempty"`
	DocxURL    string    `json:"docx_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func letterView(l *models.Letter) LetterView {
	return LetterView{
		ID:         l.ID,
		FirmID:     l.FirmID,
		CreatedBy:  l.CreatedBy,
		Title:      l.Title,
		Content:    l.Content,
		Status:     l.Status,
		TemplateID: l.TemplateID,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func letterViews(ls []*models.Letter) []LetterView {
	out := make([]LetterView, 0, len(ls))
	for _, l := range ls {
		out = append(out, letterView(l))
	}
	return out
}

type TemplateView struct {
	ID               string          `json:"id"`
	FirmID           string          `json:"firm_id"`
	Name             string          `json:"name"`
	LetterheadText   string          `json:"letterhead_text,omitempty"`
	OpeningParagraph string          `json:"opening_paragraph,omitempty"`
	ClosingParagraph string          `json:"closing_paragraph,omitempty"`
	Sections         json.RawMessage `json:"sections,omitempty"`
	IsDefault        bool            `json:"is_default"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func templateView(t *models.Template) TemplateView {
	return TemplateView{
		ID:               t.ID,
		FirmID:           t.FirmID,
		Name:             t.Name,
		LetterheadText:   t.LetterheadText,
		OpeningParagraph: t.OpeningParagraph,
		ClosingParagraph: t.ClosingParagraph,
		Sections:         json.RawMessage(t.Sections),
		IsDefault:        t.IsDefault,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type UserView struct {
	ID     string `json:"id"`
	FirmID string `json:"firm_id"`
	Email  string `json:"email"`
}

func userView(u *models.User) UserView {
	return UserView{ID: u.ID, FirmID: u.FirmID, Email: u.Email}
}
