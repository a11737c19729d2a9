package handler

import (
	"net/http"

	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.userService.Register(ctx, req.Email, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(user))
}
