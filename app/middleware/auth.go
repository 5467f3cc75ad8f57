package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const ContextKeyUser = "current_user"

type userResolver interface {
	Resolve(ctx context.Context, bearer string) (*entity.User, error)
}

type AuthMiddleware struct {
	resolver userResolver
}

func NewAuthMiddleware(resolver userResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return Unauthenticated(c, "not authenticated")
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return Unauthenticated(c, "invalid authorization header format")
		}

		user, err := m.resolver.Resolve(c.Request().Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				logrus.Debug("Invalid or expired access token")
				return Unauthenticated(c, service.ErrUnauthenticated.Error())
			}
			logrus.WithError(err).Error("Failed to resolve access token")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		}

		c.Set(ContextKeyUser, user)
		return next(c)
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*entity.User)
	return user, ok && user != nil
}

// Unauthenticated writes a 401 with the bearer challenge header.
func Unauthenticated(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": message,
	})
}
