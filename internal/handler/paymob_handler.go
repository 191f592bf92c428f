package handler

import (
	"net/http"

	"app/internal/paymob"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ゲートウェイからのサーバー間コールバック。認証は署名（hmacクエリ）のみ。
type PaymobHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymobHandler(uc *usecase.PaymentUsecase) *PaymobHandler {
	return &PaymobHandler{uc: uc}
}

func (h *PaymobHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/paymob/callback", h.callback)
}

func (h *PaymobHandler) callback(c echo.Context) error {
	var cb paymob.Callback
	if err := c.Bind(&cb); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//署名はボディではなくクエリで来る
	provided := c.QueryParam("hmac")

	if err := h.uc.HandleCallback(c.Request().Context(), cb, provided); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
