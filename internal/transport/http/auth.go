package http

import (
	"context"
	"net/http"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/auth"
	"github.com/YusovID/doubt-desk/internal/domain"
)

const principalKey = contextKey("principal")

// authenticate resolves the bearer token and stores the caller in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "internal.transport.http.authenticate"

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.handleServiceError(w, r, op, apperrors.Unauthenticated("missing bearer token"))
			return
		}

		p, err := s.resolver.Resolve(r.Context(), token)
		if err != nil {
			s.handleServiceError(w, r, op, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey).(domain.Principal)
	return p
}
