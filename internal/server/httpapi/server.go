// Package httpapi exposes the letter service over a JSON HTTP API: auth,
// letter generation and lifecycle, and template management, all scoped per
// firm and guarded by JWT bearer tokens.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lexdraft/lexdraft/internal/logging"
	"github.com/lexdraft/lexdraft/internal/server/models"
	"github.com/lexdraft/lexdraft/internal/server/repositories/letters"
	"github.com/lexdraft/lexdraft/internal/server/services"
)

// Service interfaces consumed by the handlers. The concrete implementations
// live in the services package; tests substitute fakes.
type (
	LetterService interface {
		Get(ctx context.Context, firmID, letterID string) (*models.Letter, string, error)
		List(ctx context.Context, firmID string, params letters.ListParams) ([]*models.Letter, int, error)
		Update(ctx context.Context, firmID, letterID string, params services.UpdateLetterParams) (*models.Letter, error)
		Delete(ctx context.Context, firmID, letterID string) error
		Finalize(ctx context.Context, firmID, letterID string) (*services.ExportResult, error)
		Export(ctx context.Context, firmID, letterID string) (*services.ExportResult, error)
	}

	GeneratorService interface {
		Generate(ctx context.Context, firmID, userID string, req services.GenerateRequest) (*models.Letter, error)
	}

	TemplateService interface {
		List(ctx context.Context, firmID string) ([]*models.Template, error)
		Get(ctx context.Context, firmID, templateID string) (*models.Template, error)
		Create(ctx context.Context, firmID, userID string, params services.CreateTemplateParams) (*models.Template, error)
	}

	UserService interface {
		Register(ctx context.Context, firmID, email, password string) (*models.User, error)
		Login(ctx context.Context, email, password string) (string, *models.User, error)
	}
)

// Server is the HTTP front of the letter service.
type Server struct {
	addr      string
	logger    logging.Logger
	letters   LetterService
	generator GeneratorService
	templates TemplateService
	users     UserService
	jwtSecret []byte
}

func NewServer(addr string, logger logging.Logger, ls LetterService, gs GeneratorService, ts TemplateService, us UserService, jwtSecret []byte) *Server {
	return &Server{
		addr:      addr,
		logger:    logger,
		letters:   ls,
		generator: gs,
		templates: ts,
		users:     us,
		jwtSecret: jwtSecret,
	}
}

// Router assembles the chi mux. Split out of Run so tests can drive the
// handlers through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/firms/{firmID}", func(r chi.Router) {
			r.Use(s.authenticate)
			r.Use(s.requireFirmMatch)

			r.Route("/letters", func(r chi.Router) {
				r.Get("/", s.handleListLetters)
				r.Post("/generate", s.handleGenerateLetter)
				r.Route("/{letterID}", func(r chi.Router) {
					r.Get("/", s.handleGetLetter)
					r.Patch("/", s.handleUpdateLetter)
					r.Delete("/", s.handleDeleteLetter)
					r.Post("/finalize", s.handleFinalizeLetter)
					r.Post("/export", s.handleExportLetter)
				})
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", s.handleListTemplates)
				r.Post("/", s.handleCreateTemplate)
				r.Get("/{templateID}", s.handleGetTemplate)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
