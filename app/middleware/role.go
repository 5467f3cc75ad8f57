package middleware

import (
	"net/http"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type roleChecker interface {
	Check(user *entity.User, allowed service.RoleSet) error
}

// RequireRoles must run after RequireAuth.
func RequireRoles(guard roleChecker, roles ...entity.RoleName) echo.MiddlewareFunc {
	allowed := service.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := CurrentUser(c)
			if err := guard.Check(user, allowed); err != nil {
				fields := logrus.Fields{"path": c.Path()}
				if user != nil {
					fields["user_id"] = user.ID
				}
				logrus.WithFields(fields).Warn("Role check rejected request")
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": service.ErrForbidden.Error(),
				})
			}
			return next(c)
		}
	}
}
