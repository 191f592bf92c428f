package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type CheckoutInput struct {
	//0なら未指定＝デフォルト住所を使う
	AddressID     int64
	PaymentMethod string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	PaymentMethod string            `json:"payment_method"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	TotalPrice    int64             `json:"total_price"`
	CreatedAt     time.Time         `json:"created_at"`
	Address       *AddressDTO       `json:"address,omitempty"`
	Items         []OrderItemOutput `json:"items"`
}

type StatusLogOutput struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Checkout はカートを注文に変換する。
// カート読み取り（行ロック）→ Order+OrderItems作成 → カート全削除を
// 1トランザクションで行う。どちらか片方だけ起きることはない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	method := model.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}
	if in.AddressID < 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート明細を行ロック付きで取得。
		//同一ユーザーの同時checkoutはここで直列化され、後続は空カートで失敗する。
		cartItems, err := r.CartItems().ListByUserIDForUpdate(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//配送先の解決（指定あり→所有チェック、指定なし→デフォルト）
		addr, err := resolveAddress(ctx, r, userID, in.AddressID)
		if err != nil {
			return err
		}

		//現在のProduct価格で見積もり。ここが価格の凍結点。
		ids := make([]int64, 0, len(cartItems))
		for _, it := range cartItems {
			ids = append(ids, it.ProductID)
		}
		products, err := r.Products().FindByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		quote := BuildQuote(cartItems, products)
		if len(quote.Items) == 0 {
			//明細はあるが全商品が削除・非公開
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//注文作成
		order := model.Order{
			UserID:        userID,
			AddressID:     addr.ID,
			MerchantRef:   uuid.NewString(),
			PaymentMethod: method,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusUnpaid,
			TotalPrice:    quote.GrandTotal,
		}
		created, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		orderID := created.ID

		//明細作成（unit_priceは見積もり時点のコピー）
		orderItems := make([]model.OrderItem, 0, len(quote.Items))
		for _, qi := range quote.Items {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           qi.ProductID,
				ProductNameSnapshot: qi.Name,
				UnitPrice:           qi.UnitPrice,
				Quantity:            qi.Quantity,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//タイムラインの起点
		if err := r.StatusLogs().Create(ctx, model.OrderStatusLog{
			OrderID: orderID,
			Status:  model.OrderStatusPending,
			Note:    "Order placed",
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（同一Tx内。注文なしでカートだけ消えることはない）
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		addrDTO := toAddressDTO(&addr)
		out = OrderOutput{
			ID:            orderID,
			UserID:        userID,
			PaymentMethod: string(method),
			Status:        string(model.OrderStatusPending),
			PaymentStatus: string(model.PaymentStatusUnpaid),
			TotalPrice:    quote.GrandTotal,
			CreatedAt:     created.CreatedAt,
			Address:       &addrDTO,
			Items:         toOrderItemOutputs(orderItems),
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 配送先住所を決める。
// address_id指定ありなら本人所有チェック、なければデフォルト住所。
func resolveAddress(ctx context.Context, r repo.TxRepos, userID int64, addressID int64) (model.Address, error) {
	if addressID > 0 {
		addr, err := r.Addresses().FindByID(ctx, addressID)
		if err == repo.ErrNotFound {
			return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid address")
		}
		if err != nil {
			return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if addr.UserID != userID {
			return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid address")
		}
		return addr, nil
	}

	addr, err := r.Addresses().FindDefaultByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "no address found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return addr, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文のタイムライン（ステータス履歴）を返す。本人のみ。
func (u *OrderUsecase) GetTimeline(ctx context.Context, userID int64, orderID int64) ([]StatusLogOutput, error) {
	if userID <= 0 {
		return []StatusLogOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return []StatusLogOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []StatusLogOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		logs, err := r.StatusLogs().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]StatusLogOutput, 0, len(logs))
		for _, l := range logs {
			outs = append(outs, StatusLogOutput{
				Status:    string(l.Status),
				Note:      l.Note,
				CreatedAt: l.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return []StatusLogOutput{}, err
	}
	return outs, nil
}

func toOrderItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return outs
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt,
		Items:         toOrderItemOutputs(items),
	}
}
