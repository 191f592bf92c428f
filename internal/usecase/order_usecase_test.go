package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type checkoutMocks struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	cartItems  *CartItemRepoMock
	products   *ProductRepoMock
	addresses  *AddressRepoMock
	statusLogs *StatusLogRepoMock
	uc         *usecase.OrderUsecase
}

func newCheckoutMocks() *checkoutMocks {
	m := &checkoutMocks{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		cartItems:  new(CartItemRepoMock),
		products:   new(ProductRepoMock),
		addresses:  new(AddressRepoMock),
		statusLogs: new(StatusLogRepoMock),
	}
	tx := &TxManagerStub{Repos: &TxReposStub{
		orders:        m.orders,
		orderItems:    m.orderItems,
		cartItems:     m.cartItems,
		products:      m.products,
		addresses:     m.addresses,
		statusLogs:    m.statusLogs,
		notifications: new(NotificationRepoMock),
	}}
	m.uc = usecase.NewOrderUsecase(tx)
	return m
}

// カート 2×100 + 1×50 + 送料30 = 280 のシナリオ。
// 注文作成・明細凍結・履歴追記・カート削除が全部行われること。
func TestCheckout_FreezesPricesAndClearsCart(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.cartItems.On("ListByUserIDForUpdate", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 2},
		{ID: 12, UserID: userID, ProductID: 102, Quantity: 1},
	}, nil)

	m.addresses.On("FindDefaultByUserID", mock.Anything, userID).Return(model.Address{
		ID: 5, UserID: userID, Street: "Tahrir St", City: "Giza", IsDefault: true,
	}, nil)

	m.products.On("FindByIDs", mock.Anything, []int64{101, 102}).Return(map[int64]model.Product{
		101: {ID: 101, Name: "Keyboard", Price: 100, IsActive: true},
		102: {ID: 102, Name: "Mouse", Price: 50, IsActive: true},
	}, nil)

	placedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	m.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == userID &&
			o.AddressID == 5 &&
			o.MerchantRef != "" &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusUnpaid &&
			o.TotalPrice == 280
	})).Return(model.Order{ID: 900, UserID: userID, CreatedAt: placedAt}, nil)

	m.orderItems.On("CreateBulk", mock.Anything, int64(900), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		// unit_priceはこの時点のProduct価格のコピー
		return items[0].UnitPrice == 100 && items[0].ProductNameSnapshot == "Keyboard" &&
			items[1].UnitPrice == 50 && items[1].Quantity == 1
	})).Return(nil)

	m.statusLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.OrderStatusLog) bool {
		return l.OrderID == 900 && l.Status == model.OrderStatusPending
	})).Return(nil)

	m.cartItems.On("DeleteByUserID", mock.Anything, userID).Return(nil)

	out, err := m.uc.Checkout(context.Background(), userID, usecase.CheckoutInput{
		PaymentMethod: "CREDIT_CARD",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(900), out.ID)
	assert.Equal(t, int64(280), out.TotalPrice)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "UNPAID", out.PaymentStatus)
	//レスポンスのcreated_atはDBが採番した値。後のGETと一致する。
	assert.Equal(t, placedAt, out.CreatedAt)
	assert.Len(t, out.Items, 2)

	m.orders.AssertExpectations(t)
	m.orderItems.AssertExpectations(t)
	m.statusLogs.AssertExpectations(t)
	m.cartItems.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.cartItems.On("ListByUserIDForUpdate", mock.Anything, userID).Return([]model.CartItem{}, nil)

	_, err := m.uc.Checkout(context.Background(), userID, usecase.CheckoutInput{
		PaymentMethod: "CASH",
	})

	assertHTTPError(t, err, http.StatusBadRequest, "cart is empty")
	m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	m := newCheckoutMocks()

	_, err := m.uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		PaymentMethod: "BITCOIN",
	})

	assertHTTPError(t, err, http.StatusBadRequest, "invalid payment_method")
}

// 明示指定した住所が他人のものなら400。注文は作られない。
func TestCheckout_AddressNotOwned(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.cartItems.On("ListByUserIDForUpdate", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 1},
	}, nil)
	m.addresses.On("FindByID", mock.Anything, int64(7)).Return(model.Address{
		ID: 7, UserID: 99,
	}, nil)

	_, err := m.uc.Checkout(context.Background(), userID, usecase.CheckoutInput{
		AddressID:     7,
		PaymentMethod: "CASH",
	})

	assertHTTPError(t, err, http.StatusBadRequest, "invalid address")
	m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.cartItems.AssertNotCalled(t, "DeleteByUserID", mock.Anything, userID)
}

func TestCheckout_NoDefaultAddress(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.cartItems.On("ListByUserIDForUpdate", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 1},
	}, nil)
	m.addresses.On("FindDefaultByUserID", mock.Anything, userID).Return(model.Address{}, repo.ErrNotFound)

	_, err := m.uc.Checkout(context.Background(), userID, usecase.CheckoutInput{
		PaymentMethod: "CASH",
	})

	assertHTTPError(t, err, http.StatusBadRequest, "no address found")
}

// 明細はあるが商品が全部消えている・非公開のケースも空カート扱い。
func TestCheckout_AllProductsGone(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.cartItems.On("ListByUserIDForUpdate", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 1},
		{ID: 12, UserID: userID, ProductID: 102, Quantity: 2},
	}, nil)
	m.addresses.On("FindDefaultByUserID", mock.Anything, userID).Return(model.Address{
		ID: 5, UserID: userID,
	}, nil)
	m.products.On("FindByIDs", mock.Anything, []int64{101, 102}).Return(map[int64]model.Product{
		102: {ID: 102, Name: "Hidden", Price: 50, IsActive: false},
	}, nil)

	_, err := m.uc.Checkout(context.Background(), userID, usecase.CheckoutInput{
		PaymentMethod: "CASH",
	})

	assertHTTPError(t, err, http.StatusBadRequest, "cart is empty")
	m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 他人の注文は404（存在も漏らさない）
func TestGetMyOrderDetail_OtherUsersOrder(t *testing.T) {
	m := newCheckoutMocks()

	m.orders.On("FindByID", mock.Anything, int64(900)).Return(model.Order{
		ID: 900, UserID: 99,
	}, nil)

	_, err := m.uc.GetMyOrderDetail(context.Background(), 1, 900)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestGetTimeline_ReturnsLogsInOrder(t *testing.T) {
	m := newCheckoutMocks()
	userID := int64(1)

	m.orders.On("FindByID", mock.Anything, int64(900)).Return(model.Order{
		ID: 900, UserID: userID,
	}, nil)
	m.statusLogs.On("ListByOrderID", mock.Anything, int64(900)).Return([]model.OrderStatusLog{
		{OrderID: 900, Status: model.OrderStatusPending, Note: "Order placed"},
		{OrderID: 900, Status: model.OrderStatusPreparing},
	}, nil)

	logs, err := m.uc.GetTimeline(context.Background(), userID, 900)
	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, "PENDING", logs[0].Status)
	assert.Equal(t, "PREPARING", logs[1].Status)
}
