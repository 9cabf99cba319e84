// Package http exposes the doubt workflow over HTTP. Handlers decode the
// request, resolve the caller, call the question service and encode the result.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/service"
	"github.com/YusovID/doubt-desk/internal/validation"
	"github.com/YusovID/doubt-desk/pkg/api"
	"github.com/YusovID/doubt-desk/pkg/logger/sl"
	"github.com/YusovID/doubt-desk/swagger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrincipalResolver turns a bearer token into the verified caller.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	log       *slog.Logger
	questions service.QuestionService
	resolver  PrincipalResolver
	health    HealthChecker
}

func NewServer(
	log *slog.Logger,
	questions service.QuestionService,
	resolver PrincipalResolver,
	health HealthChecker,
) *Server {
	return &Server{
		log:       log,
		questions: questions,
		resolver:  resolver,
		health:    health,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	swaggerHandler, err := swagger.GetHandler()
	if err != nil {
		s.log.Error("failed to get swagger handler", sl.Err(err))
	} else {
		mux.Mount("/swagger", http.StripPrefix("/swagger", swaggerHandler))
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/healthz", s.Healthz)

	mux.Route("/questions", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/", s.CreateQuestion)
		r.Get("/", s.ListQuestions)
		r.Get("/my-questions", s.ListMine)
		r.Get("/available", s.ListAvailable)
		r.Get("/assigned", s.ListAssigned)

		r.Route("/{questionId}", func(r chi.Router) {
			r.Post("/assign", s.Assign)
			r.Post("/resolve", s.Resolve)
			r.Put("/status", s.UpdateStatus)
			r.Put("/reopen", s.Reopen)
			r.Put("/rate", s.Rate)

			r.Get("/comments", s.GetComments)
			r.Post("/comments", s.AddComment)
			r.Post("/comments/{commentId}/replies", s.AddReply)
		})
	})

	return mux
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.Healthz"

	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.Error("health check failed", slog.String("op", op), sl.Err(err))
			s.respondAPIError(w, http.StatusServiceUnavailable, api.INTERNAL, "database unavailable")
			return
		}
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondAPIError sends the {"error":{"code","message"}} envelope.
func (s *Server) respondAPIError(w http.ResponseWriter, code int, apiCode api.ErrorResponseErrorCode, message string) {
	var errResp api.ErrorResponse
	errResp.Error.Code = apiCode
	errResp.Error.Message = message

	s.respond(w, code, errResp)
}

// decodeAndValidate deserializes a JSON request body into v and then runs
// validation checks on it. An empty body decodes to the zero value.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

var kindStatus = map[string]struct {
	status int
	code   api.ErrorResponseErrorCode
}{
	apperrors.KindUnauthenticated: {http.StatusUnauthorized, api.UNAUTHENTICATED},
	apperrors.KindForbidden:       {http.StatusForbidden, api.FORBIDDEN},
	apperrors.KindValidation:      {http.StatusBadRequest, api.VALIDATION},
	apperrors.KindNotFound:        {http.StatusNotFound, api.NOTFOUND},
	apperrors.KindConflict:        {http.StatusConflict, api.CONFLICT},
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// Classified errors are answered with their own message; anything else is
// logged and hidden behind a generic 500.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op), slog.String("request_id", getRequestID(r.Context())))

	kind := apperrors.KindOf(err)
	observeOperation(op, kind)

	mapped, ok := kindStatus[kind]
	if !ok {
		log.Error("service error occurred", sl.Err(err))
		s.respondAPIError(w, http.StatusInternalServerError, api.INTERNAL, "internal server error")
		return
	}

	log.Warn("request rejected", slog.String("kind", kind), sl.Err(err))
	s.respondAPIError(w, mapped.status, mapped.code, publicMessage(err))
}

func publicMessage(err error) string {
	var (
		validationErr *validation.ValidationError
		appErr        *apperrors.Error
		questionErr   *apperrors.QuestionNotFoundError
		commentErr    *apperrors.CommentNotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return "invalid request body"
	case errors.As(err, &appErr):
		return appErr.Message
	case errors.As(err, &questionErr):
		return questionErr.Error()
	case errors.As(err, &commentErr):
		return commentErr.Error()
	default:
		return "request failed"
	}
}
