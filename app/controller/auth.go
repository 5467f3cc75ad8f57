package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	appdto "github.com/vibast-solutions/ms-go-contacts/app/dto"
	dto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type registrationService interface {
	Register(ctx context.Context, email, password string) (*entity.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*appdto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*appdto.TokenPair, error)
}

type avatarService interface {
	UploadAvatar(ctx context.Context, user *entity.User, filename, contentType string, body io.Reader, size int64) (*appdto.AvatarResult, error)
}

type AuthController struct {
	registration registrationService
	profile      avatarService
}

func NewAuthController(registration registrationService, profile avatarService) *AuthController {
	return &AuthController{registration: registration, profile: profile}
}

func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	user, err := c.registration.Register(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) || errors.Is(err, service.ErrWeakPassword) {
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		return internalError(ctx, err, "Registration failed")
	}

	return ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (c *AuthController) VerifyEmail(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "token is required"})
	}

	if err := c.registration.VerifyEmail(ctx.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrVerificationFailed) {
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		return internalError(ctx, err, "Email verification failed")
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Msg: "Email verified successfully"})
}

func (c *AuthController) ResendVerification(ctx echo.Context) error {
	var req dto.ResendVerificationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	if err := c.registration.ResendVerification(ctx.Request().Context(), req.Email); err != nil {
		return internalError(ctx, err, "Resending verification failed")
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Msg: "if the account exists and is not verified, a verification email has been sent",
	})
}

func (c *AuthController) Token(ctx echo.Context) error {
	var req dto.TokenRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	pair, err := c.registration.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return middleware.Unauthenticated(ctx, "incorrect email or password")
		}
		return internalError(ctx, err, "Login failed")
	}

	return ctx.JSON(http.StatusOK, dto.NewTokenResponse(pair))
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	// echo only binds query parameters for GET, DELETE and HEAD.
	if req.RefreshToken == "" {
		req.RefreshToken = ctx.QueryParam("refresh_token")
	}
	if err := req.Validate(); err != nil {
		return middleware.Unauthenticated(ctx, "invalid refresh token")
	}

	pair, err := c.registration.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return middleware.Unauthenticated(ctx, "invalid refresh token")
		}
		return internalError(ctx, err, "Token refresh failed")
	}

	return ctx.JSON(http.StatusOK, dto.NewTokenResponse(pair))
}

func (c *AuthController) UploadPhoto(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
	}
	if header.Size > service.MaxAvatarSize {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: service.ErrFileTooLarge.Error()})
	}

	file, err := header.Open()
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid file"})
	}
	defer file.Close()

	result, err := c.profile.UploadAvatar(
		ctx.Request().Context(),
		user,
		header.Filename,
		header.Header.Get(echo.HeaderContentType),
		file,
		header.Size,
	)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		return internalError(ctx, err, "Avatar upload failed")
	}

	return ctx.JSON(http.StatusOK, dto.AvatarResponse{PublicID: result.PublicID, URL: result.URL})
}

func (c *AuthController) Me(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}
	return ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func validationFailed(ctx echo.Context, err error) error {
	logrus.WithError(err).Debug("Request validation failed")
	return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func internalError(ctx echo.Context, err error, msg string) error {
	entry := logrus.WithError(err).WithField("path", ctx.Path())
	if user, ok := middleware.CurrentUser(ctx); ok {
		entry = entry.WithField("user_id", user.ID)
	}
	entry.Error(msg)
	return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
