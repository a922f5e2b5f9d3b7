package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/present/rest/presenter"
	"github.com/museumaceh/baservice/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// IdentifyIdentity attaches the authenticated identity to the request
// context when a valid bearer token is present. It never rejects; gating is
// RequireAuth's job.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")

		if authHeader != "" {
			split := strings.Split(authHeader, " ")
			if len(split) != 2 {
				span.RecordError(fmt.Errorf("invalid authentication header"))
				goto skipCheckAuthorization
			}

			authType, token := split[0], split[1]
			if authType != "Bearer" {
				span.RecordError(fmt.Errorf("only Bearer is acceptable"))
				goto skipCheckAuthorization
			}

			identity, err := s.auth.ParseToken(token)
			if err != nil {
				span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: token rejected"))
				goto skipCheckAuthorization
			}

			ctx = context.WithValue(ctx, domain.IdentityCtxKey, identity)
			span.SetAttributes(attribute.String("UserId", identity.UserID))
		}

	skipCheckAuthorization:
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAuth rejects requests that carry no authenticated identity.
func (s *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); !ok {
			return presenter.Unauthorized(c, "authentication required")
		}
		return next(c)
	}
}

// RequireRoles rejects authenticated callers whose role is not listed.
func (s *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return presenter.Unauthorized(c, "authentication required")
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return presenter.Forbidden(c, fmt.Sprintf("role '%s' is not allowed to perform this action", identity.Role))
		}
	}
}

// IdentityFrom extracts the authenticated identity from the request context.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Request().Context().Value(domain.IdentityCtxKey).(domain.Identity)
	return identity, ok
}
