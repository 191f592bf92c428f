package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}
	if in.Status != "" && !model.OrderStatus(in.Status).Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		out = AdminOrderListOutput{Orders: outs, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// UpdateStatus は注文ステータスを変更し、履歴を1行追記して本人に通知する。
// 遷移の向きは制限しない。DELIVEREDからPREPARINGに戻すのも運用上あり得るので、
// どの誤操作も履歴に残る前提で運用者に任せる。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, note string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !status.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//同じ値への変更でも1行追記する。タイムラインは操作の記録なので。
		if err := r.StatusLogs().Create(ctx, model.OrderStatusLog{
			OrderID: orderID,
			Status:  status,
			Note:    note,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Notifications().Create(ctx, model.Notification{
			UserID: order.UserID,
			Title:  "Order Update",
			Body:   fmt.Sprintf("Your order #%d is now %s", orderID, status),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// UpdatePaymentStatus は運用者によるpayment_statusの手動オーバーライド。
// 現金払いの回収やゲートウェイ障害時の救済用で、無条件に上書きする。
func (u *AdminOrderUsecase) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !status.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdatePaymentStatus(ctx, orderID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//手動オーバーライドもタイムラインに残す。注文ステータス自体は変えない。
		if err := r.StatusLogs().Create(ctx, model.OrderStatusLog{
			OrderID: orderID,
			Status:  order.Status,
			Note:    fmt.Sprintf("payment status overridden to %s", status),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if order.PaymentStatus != status {
			if err := r.Notifications().Create(ctx, model.Notification{
				UserID: order.UserID,
				Title:  "Payment Update",
				Body:   fmt.Sprintf("Your order #%d payment status changed to %s", orderID, status),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return nil
	})
}
