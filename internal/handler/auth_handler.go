package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// 認証は公開ルート
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
}

// registerはPOST /auth/registerのハンドラ
func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return authWriteError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return authWriteUsecaseError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// loginはPOST /auth/loginのハンドラ
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return authWriteError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return authWriteUsecaseError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ------- AuthHandler専用 helper（既存と衝突しないように prefix 付き） -------

func authWriteError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func authWriteUsecaseError(c echo.Context, err error) error {
	switch err {
	case usecase.ErrValidation:
		return authWriteError(c, http.StatusBadRequest, "validation error")
	case usecase.ErrUnauthorized:
		return authWriteError(c, http.StatusUnauthorized, "unauthorized")
	case usecase.ErrConflict:
		return authWriteError(c, http.StatusConflict, "conflict")
	case usecase.ErrInternal:
		return authWriteError(c, http.StatusInternalServerError, "internal error")
	default:
		return authWriteError(c, http.StatusInternalServerError, "internal error")
	}
}
