package controller

import (
	"net/http"

	dto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"

	"github.com/labstack/echo/v4"
)

func Ping(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dto.PingResponse{Message: "pong"})
}
