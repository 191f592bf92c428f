package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users/me のHTTP
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/users")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/me", h.me)
	g.PATCH("/me", h.updateMe)
	g.PUT("/me/password", h.changePassword)
}

func (h *UserHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return userWriteError(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return userWriteUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) updateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return userWriteError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return userWriteError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), userID, req)
	if err != nil {
		return userWriteUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) changePassword(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return userWriteError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return userWriteError(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return userWriteUsecaseError(c, err)
	}

	// Success は {message:string} に寄せる
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}

// ------- UserHandler専用 helper -------

func userWriteError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func userWriteUsecaseError(c echo.Context, err error) error {
	switch err {
	case usecase.ErrValidation:
		return userWriteError(c, http.StatusBadRequest, "validation error")
	case usecase.ErrUnauthorized:
		return userWriteError(c, http.StatusUnauthorized, "unauthorized")
	case usecase.ErrInternal:
		return userWriteError(c, http.StatusInternalServerError, "internal error")
	default:
		return userWriteError(c, http.StatusInternalServerError, "internal error")
	}
}
