package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	appdto "github.com/vibast-solutions/ms-go-contacts/app/dto"
	dto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"

	"github.com/labstack/echo/v4"
)

type contactService interface {
	Create(ctx context.Context, ownerID uint64, input appdto.ContactInput) (*entity.Contact, error)
	Get(ctx context.Context, ownerID, id uint64) (*entity.Contact, error)
	List(ctx context.Context, ownerID uint64, skip, limit int) ([]*entity.Contact, error)
	Update(ctx context.Context, ownerID, id uint64, input appdto.ContactInput) (*entity.Contact, error)
	Delete(ctx context.Context, ownerID, id uint64) error
	UpcomingBirthdays(ctx context.Context, ownerID uint64, days int) ([]*entity.Contact, error)
	ListAll(ctx context.Context, skip, limit int) ([]*entity.Contact, error)
	GetAny(ctx context.Context, id uint64) (*entity.Contact, error)
	UpcomingBirthdaysAll(ctx context.Context, days int) ([]*entity.Contact, error)
}

type ContactController struct {
	contacts contactService
}

func NewContactController(contacts contactService) *ContactController {
	return &ContactController{contacts: contacts}
}

func (c *ContactController) Create(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	var req dto.ContactRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	contact, err := c.contacts.Create(ctx.Request().Context(), user.ID, req.ToInput())
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

func (c *ContactController) List(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	skip, limit, err := pageParams(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	contacts, err := c.contacts.List(ctx.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

func (c *ContactController) Get(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	id, err := contactID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: service.ErrContactNotFound.Error()})
	}

	contact, err := c.contacts.Get(ctx.Request().Context(), user.ID, id)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

func (c *ContactController) Update(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	id, err := contactID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: service.ErrContactNotFound.Error()})
	}

	var req dto.ContactRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	contact, err := c.contacts.Update(ctx.Request().Context(), user.ID, id, req.ToInput())
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

func (c *ContactController) Delete(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	id, err := contactID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: service.ErrContactNotFound.Error()})
	}

	if err := c.contacts.Delete(ctx.Request().Context(), user.ID, id); err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.DetailResponse{Detail: "Contact deleted"})
}

func (c *ContactController) Birthdays(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return middleware.Unauthenticated(ctx, service.ErrUnauthenticated.Error())
	}

	days, err := daysParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	contacts, err := c.contacts.UpcomingBirthdays(ctx.Request().Context(), user.ID, days)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

func (c *ContactController) ListAll(ctx echo.Context) error {
	skip, limit, err := pageParams(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	contacts, err := c.contacts.ListAll(ctx.Request().Context(), skip, limit)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

func (c *ContactController) GetAny(ctx echo.Context) error {
	id, err := contactID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: service.ErrContactNotFound.Error()})
	}

	contact, err := c.contacts.GetAny(ctx.Request().Context(), id)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

func (c *ContactController) BirthdaysAll(ctx echo.Context) error {
	days, err := daysParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	contacts, err := c.contacts.UpcomingBirthdaysAll(ctx.Request().Context(), days)
	if err != nil {
		return c.contactError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

func (c *ContactController) contactError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrContactExists):
		return ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidDays):
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		return internalError(ctx, err, "Contact operation failed")
	}
}

func contactID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}

var (
	errInvalidSkip  = errors.New("skip must be a non-negative integer")
	errInvalidLimit = errors.New("limit must be a positive integer")
	errDaysRequired = errors.New("days is required")
)

func pageParams(ctx echo.Context) (int, int, error) {
	skip, limit := 0, 0

	if raw := ctx.QueryParam("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, errInvalidSkip
		}
		skip = v
	}
	if raw := ctx.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, 0, errInvalidLimit
		}
		limit = v
	}

	return skip, limit, nil
}

func daysParam(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("days")
	if raw == "" {
		return 0, errDaysRequired
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.ErrInvalidDays
	}
	return days, nil
}
