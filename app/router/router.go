package router

import (
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/controller"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

var (
	CreateContactRate      = middleware.RateRule{Name: "create_contact", Limit: 2, Window: 59 * time.Second}
	GetContactRate         = middleware.RateRule{Name: "get_contact", Limit: 2, Window: 5 * time.Second}
	ResendVerificationRate = middleware.RateRule{Name: "resend_verification", Limit: 2, Window: time.Minute}
)

// avatarBodyLimit leaves room for multipart framing around a maximum size image.
const avatarBodyLimit = "6M"

type Handlers struct {
	Auth        *controller.AuthController
	Contacts    *controller.ContactController
	AuthMW      *middleware.AuthMiddleware
	Guard       *service.Guard
	RateLimiter *middleware.RateLimiter
	// IPExtractor identifies clients; nil uses the TCP peer address.
	IPExtractor echo.IPExtractor
}

func Register(e *echo.Echo, h Handlers) {
	e.IPExtractor = h.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}
	e.Pre(echomiddleware.RemoveTrailingSlash())

	e.GET("/ping", controller.Ping)

	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.GET("/verify-email", h.Auth.VerifyEmail)
	auth.POST("/resend-verification", h.Auth.ResendVerification, h.RateLimiter.Middleware(ResendVerificationRate))
	auth.POST("/token", h.Auth.Token)
	auth.POST("/refresh", h.Auth.Refresh)

	authProtected := auth.Group("", h.AuthMW.RequireAuth)
	authProtected.POST("/upload-photo", h.Auth.UploadPhoto, echomiddleware.BodyLimit(avatarBodyLimit))
	authProtected.GET("/me", h.Auth.Me)

	contacts := e.Group("/contacts", h.AuthMW.RequireAuth)
	contacts.POST("", h.Contacts.Create,
		middleware.RequireRoles(h.Guard, entity.RoleUser, entity.RoleAdmin),
		h.RateLimiter.Middleware(CreateContactRate),
	)
	contacts.GET("", h.Contacts.List)
	contacts.GET("/birthdays", h.Contacts.Birthdays)
	contacts.GET("/:id", h.Contacts.Get, h.RateLimiter.Middleware(GetContactRate))
	contacts.PUT("/:id", h.Contacts.Update)
	contacts.DELETE("/:id", h.Contacts.Delete)

	admin := contacts.Group("/all", middleware.RequireRoles(h.Guard, entity.RoleAdmin))
	admin.GET("", h.Contacts.ListAll)
	admin.GET("/birthdays", h.Contacts.BirthdaysAll)
	admin.GET("/:id", h.Contacts.GetAny)
}
