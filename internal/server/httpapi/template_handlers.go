package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexdraft/lexdraft/internal/server/services"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := s.templates.List(r.Context(), firmID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]TemplateView, 0, len(result))
	for _, t := range result {
		views = append(views, templateView(t))
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"templates": views})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.templates.Get(r.Context(), firmID(r), chi.URLParam(r, "templateID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"template": templateView(template)})
}

type createTemplateRequest struct {
	Name             string          `json:"name"`
	LetterheadText   string          `json:"letterhead_text"`
	OpeningParagraph string          `json:"opening_paragraph"`
	ClosingParagraph string          `json:"closing_paragraph"`
	Sections         json.RawMessage `json:"sections"`
	IsDefault        bool            `json:"is_default"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims, _ := claimsFrom(r.Context())

	template, err := s.templates.Create(r.Context(), firmID(r), claims.UserID, services.CreateTemplateParams{
		Name:             req.Name,
		LetterheadText:   req.LetterheadText,
		OpeningParagraph: req.OpeningParagraph,
		ClosingParagraph: req.ClosingParagraph,
		Sections:         []byte(req.Sections),
		IsDefault:        req.IsDefault,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]any{"template": templateView(template)})
}
