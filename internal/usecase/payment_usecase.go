package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	"app/internal/paymob"
	repo "app/internal/repository"
)

// usecaseがゲートウェイに依存するための約束（実装はpaymob.Client）
type PaymentGateway interface {
	Authenticate(ctx context.Context) (string, error)
	RegisterOrder(ctx context.Context, token string, amountCents int64, merchantRef string) (int64, error)
	PaymentKey(ctx context.Context, token string, amountCents int64, remoteOrderID int64, billing paymob.BillingData) (string, error)
	IframeURL(paymentKey string) string
	HMACSecret() string
}

type PaymentUsecase struct {
	tx      repo.TransactionManager
	users   repo.UserRepository
	gateway PaymentGateway
}

func NewPaymentUsecase(tx repo.TransactionManager, users repo.UserRepository, gateway PaymentGateway) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, users: users, gateway: gateway}
}

type PayOutput struct {
	RedirectURL string `json:"redirect_url"`
}

// Pay は注文の決済セッションを開き、リダイレクトURLを返す。
// authenticate → リモート注文登録 → payment key発行 → URL組み立ての順で、
// 最初の失敗をそのまま返す。payment_statusはここでは変更しない。
// 何度呼んでもよい（その都度リモートへ往復してURLを取り直す）。
func (u *PaymentUsecase) Pay(ctx context.Context, userID int64, orderID int64) (PayOutput, error) {
	if userID <= 0 {
		return PayOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PayOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//所有チェックと請求先の材料集め
	var order model.Order
	var addr model.Address

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusForbidden, "not allowed to pay for this order")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "not allowed to pay for this order")
		}

		a, err := r.Addresses().FindByID(ctx, o.AddressID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order = o
		addr = a
		return nil
	})
	if err != nil {
		return PayOutput{}, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return PayOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//注文総額はポンド単位で保存しているのでピアストルに直す
	amountCents := order.TotalPrice * 100

	token, err := u.gateway.Authenticate(ctx)
	if err != nil {
		return PayOutput{}, gatewayHTTPError(err)
	}

	remoteOrderID, err := u.gateway.RegisterOrder(ctx, token, amountCents, order.MerchantRef)
	if err != nil {
		return PayOutput{}, gatewayHTTPError(err)
	}

	billing := paymob.BillingData{
		FirstName:   user.Name,
		Email:       user.Email,
		PhoneNumber: user.Phone,
		Street:      addr.Street,
		Building:    addr.Building,
		Floor:       addr.Floor,
		Apartment:   addr.Apartment,
		City:        addr.City,
	}

	paymentKey, err := u.gateway.PaymentKey(ctx, token, amountCents, remoteOrderID, billing)
	if err != nil {
		return PayOutput{}, gatewayHTTPError(err)
	}

	return PayOutput{RedirectURL: u.gateway.IframeURL(paymentKey)}, nil
}

// HandleCallback はゲートウェイのトランザクションコールバックを処理する。
// 署名検証 → merchant_order_idでOrder引き当て → payment_statusの冪等適用。
// 検証が通ったコールバックは再送でも成功を返す（ゲートウェイの再送を止める）。
func (u *PaymentUsecase) HandleCallback(ctx context.Context, cb paymob.Callback, providedHMAC string) error {
	//検証に失敗した入力には一切触らない
	if !paymob.VerifyHMAC(cb.Obj, u.gateway.HMACSecret(), providedHMAC) {
		return NewHTTPError(http.StatusBadRequest, "invalid hmac")
	}

	merchantRef := cb.Obj.Order.MerchantOrderID
	if merchantRef == "" {
		return NewHTTPError(http.StatusNotFound, "unknown order")
	}

	target := model.PaymentStatusFailed
	if cb.Obj.IsSuccess() {
		target = model.PaymentStatusPaid
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByMerchantRef(ctx, merchantRef)
		if err == repo.ErrNotFound {
			//コールバックから注文を作ることはしない
			return NewHTTPError(http.StatusNotFound, "unknown order")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//条件付き更新。すでに同じ値なら行は変わらず、副作用も起こさない。
		changed, err := r.Orders().UpdatePaymentStatusIfDiffers(ctx, order.ID, target)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !changed {
			//再送分。成功として返すが通知は積まない。
			return nil
		}

		if err := r.Notifications().Create(ctx, model.Notification{
			UserID: order.UserID,
			Title:  "Payment Update",
			Body:   fmt.Sprintf("Your order #%d payment status changed to %s", order.ID, target),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// ゲートウェイ呼び出しのエラーをHTTPエラーに変換
func gatewayHTTPError(err error) error {
	if errors.Is(err, paymob.ErrTimeout) {
		return NewHTTPError(http.StatusGatewayTimeout, "payment gateway timeout")
	}
	return NewHTTPError(http.StatusBadGateway, "payment gateway error")
}
