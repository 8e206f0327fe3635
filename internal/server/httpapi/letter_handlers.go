package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lexdraft/lexdraft/internal/server/repositories/letters"
	"github.com/lexdraft/lexdraft/internal/server/services"
)

func firmID(r *http.Request) string   { return chi.URLParam(r, "firmID") }
func letterID(r *http.Request) string { return chi.URLParam(r, "letterID") }

type listLettersResponse struct {
	Letters  []LetterView `json:"letters"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

func (s *Server) handleListLetters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := letters.ListParams{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	result, total, err := s.letters.List(r.Context(), firmID(r), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, listLettersResponse{
		Letters:  letterViews(result),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

type generateLetterRequest struct {
	TemplateID  string   `json:"template_id"`
	DocumentIDs []string `json:"document_ids"`
	Title       string   `json:"title"`
}

func (s *Server) handleGenerateLetter(w http.ResponseWriter, r *http.Request) {
	var req generateLetterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims, _ := claimsFrom(r.Context())

	letter, err := s.generator.Generate(r.Context(), firmID(r), claims.UserID, services.GenerateRequest{
		TemplateID:  req.TemplateID,
		DocumentIDs: req.DocumentIDs,
		Title:       req.Title,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]any{"letter": letterView(letter)})
}

func (s *Server) handleGetLetter(w http.ResponseWriter, r *http.Request) {
	letter, url, err := s.letters.Get(r.Context(), firmID(r), letterID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := letterView(letter)
	view.DocxURL = url

	resp := map[string]any{"letter": view}
	if url != "" {
		resp["download_url"] = url
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

type updateLetterRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *Server) handleUpdateLetter(w http.ResponseWriter, r *http.Request) {
	var req updateLetterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	letter, err := s.letters.Update(r.Context(), firmID(r), letterID(r), services.UpdateLetterParams{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"letter": letterView(letter)})
}

func (s *Server) handleDeleteLetter(w http.ResponseWriter, r *http.Request) {
	if err := s.letters.Delete(r.Context(), firmID(r), letterID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleFinalizeLetter(w http.ResponseWriter, r *http.Request) {
	res, err := s.letters.Finalize(r.Context(), firmID(r), letterID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := letterView(res.Letter)
	view.DocxURL = res.DownloadURL

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"letter":       view,
		"download_url": res.DownloadURL,
		"message":      "Letter finalized successfully",
	})
}

func (s *Server) handleExportLetter(w http.ResponseWriter, r *http.Request) {
	res, err := s.letters.Export(r.Context(), firmID(r), letterID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := letterView(res.Letter)
	view.DocxURL = res.DownloadURL

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"letter":       view,
		"download_url": res.DownloadURL,
		"expires_in":   res.ExpiresIn,
		"message":      "Letter exported successfully",
	})
}
