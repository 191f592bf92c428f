package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Address      *handler.AddressHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Paymob       *handler.PaymobHandler
	Notification *handler.NotificationHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	//公開ルート
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Paymob.RegisterRoutes(e)

	//要ログイン
	h.User.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Notification.RegisterRoutes(e, cfg)

	//管理者のみ
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
}
