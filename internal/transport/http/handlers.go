package http

import (
	"net/http"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/validation"
	"github.com/go-chi/chi/v5"
)

func (s *Server) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.CreateQuestion"

	var req createQuestionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.CreateQuestion(r.Context(), principalFrom(r.Context()), req.Title, req.Description, req.Topic)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusCreated, q)
}

func (s *Server) ListQuestions(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListQuestions"

	questions, err := s.questions.ListQuestions(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, questions)
}

func (s *Server) ListMine(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListMine"

	questions, err := s.questions.ListMine(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, questions)
}

func (s *Server) ListAssigned(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListAssigned"

	questions, err := s.questions.ListAssigned(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, questions)
}

func (s *Server) ListAvailable(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListAvailable"

	questions, err := s.questions.ListAvailable(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, questions)
}

func (s *Server) Assign(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.Assign"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.Assign(r.Context(), principalFrom(r.Context()), questionID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, q)
}

func (s *Server) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.UpdateStatus"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req updateStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.UpdateStatus(r.Context(), principalFrom(r.Context()), questionID, domain.Status(req.Status), req.Resolution)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, q)
}

func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.Resolve"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req resolveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.Resolve(r.Context(), principalFrom(r.Context()), questionID, req.Comment)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, q)
}

func (s *Server) Reopen(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.Reopen"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req reopenRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.Reopen(r.Context(), principalFrom(r.Context()), questionID, req.Reason)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, q)
}

func (s *Server) Rate(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.Rate"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req rateRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	q, err := s.questions.Rate(r.Context(), principalFrom(r.Context()), questionID, *req.Score, req.Feedback)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, q)
}

func (s *Server) GetComments(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetComments"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	comments, err := s.questions.GetComments(r.Context(), principalFrom(r.Context()), questionID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, comments)
}

func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.AddComment"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req commentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	comments, err := s.questions.AddComment(r.Context(), principalFrom(r.Context()), questionID, req.text())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, comments)
}

func (s *Server) AddReply(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.AddReply"

	questionID, err := questionIDParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	commentID := chi.URLParam(r, "commentId")
	if validation.ValidateStruct(commentPath{CommentID: commentID}) != nil {
		s.handleServiceError(w, r, op, &apperrors.CommentNotFoundError{QuestionID: questionID, CommentID: commentID})
		return
	}

	var req commentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	comments, err := s.questions.AddReply(r.Context(), principalFrom(r.Context()), questionID, commentID, req.text())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	observeOperation(op, outcomeOK)
	s.respond(w, http.StatusOK, comments)
}

// questionIDParam reads the questionId path parameter. Ids that could never
// have been issued are reported as unknown questions.
func questionIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "questionId")
	if validation.ValidateStruct(questionPath{QuestionID: id}) != nil {
		return "", &apperrors.QuestionNotFoundError{QuestionID: id}
	}

	return id, nil
}
