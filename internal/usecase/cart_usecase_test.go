package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUC() (*usecase.CartUsecase, *CartItemRepoMock, *ProductRepoMock) {
	cartItems := new(CartItemRepoMock)
	products := new(ProductRepoMock)
	return usecase.NewCartUsecase(cartItems, products), cartItems, products
}

func TestAddToCart_UpsertsAndReturnsLivePricing(t *testing.T) {
	uc, cartItems, products := newCartUC()
	userID := int64(1)

	products.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, Name: "Keyboard", Price: 100, Stock: 10, IsActive: true,
	}, nil)
	//既存1個に2個追加
	cartItems.On("ListByUserID", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 1},
	}, nil).Once()
	cartItems.On("UpsertByUserAndProduct", mock.Anything, userID, int64(101), int64(2)).Return(nil)

	//upsert後の再読込
	cartItems.On("ListByUserID", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 3},
	}, nil)
	products.On("FindByIDs", mock.Anything, []int64{101}).Return(map[int64]model.Product{
		101: {ID: 101, Name: "Keyboard", Price: 100, IsActive: true},
	}, nil)

	out, err := uc.AddToCart(context.Background(), userID, usecase.AddCartInput{ProductID: 101, Quantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, 1, out.ItemsCount)
	assert.Equal(t, int64(300), out.ItemsTotal)
	assert.Equal(t, int64(330), out.GrandTotal)
	cartItems.AssertExpectations(t)
}

// 既存数量＋追加数量が在庫を超えたら追加できない
func TestAddToCart_StockExceeded(t *testing.T) {
	uc, cartItems, products := newCartUC()
	userID := int64(1)

	products.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, Price: 100, Stock: 3, IsActive: true,
	}, nil)
	cartItems.On("ListByUserID", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 2},
	}, nil)

	_, err := uc.AddToCart(context.Background(), userID, usecase.AddCartInput{ProductID: 101, Quantity: 2})

	assertHTTPError(t, err, http.StatusBadRequest, "stock exceeded")
	cartItems.AssertNotCalled(t, "UpsertByUserAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToCart_InactiveProduct(t *testing.T) {
	uc, _, products := newCartUC()

	products.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, Price: 100, Stock: 10, IsActive: false,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 101, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product")
}

// 他人の明細は404
func TestUpdateCartItem_NotOwned(t *testing.T) {
	uc, cartItems, _ := newCartUC()

	cartItems.On("IsOwnedByUser", mock.Anything, int64(11), int64(1)).Return(false, nil)

	_, err := uc.UpdateCartItem(context.Background(), 1, 11, usecase.UpdateCartItemInput{Quantity: 2})
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

// カート表示は常に現在価格。値上げは次の表示に即反映される。
func TestGetCart_ReflectsCurrentPrice(t *testing.T) {
	uc, cartItems, products := newCartUC()
	userID := int64(1)

	cartItems.On("ListByUserID", mock.Anything, userID).Return([]model.CartItem{
		{ID: 11, UserID: userID, ProductID: 101, Quantity: 2},
	}, nil)
	products.On("FindByIDs", mock.Anything, []int64{101}).Return(map[int64]model.Product{
		101: {ID: 101, Name: "Keyboard", Price: 150, IsActive: true}, //値上げ後
	}, nil)

	out, err := uc.GetCart(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(150), out.Items[0].Price)
	assert.Equal(t, int64(300), out.ItemsTotal)
}
