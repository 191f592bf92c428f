package usecase

import "app/internal/domain/model"

// 送料は一律。カートが空なら0だが、空カートはそもそもcheckoutできない。
// ここの分岐とcheckout側のガードは常に同じ結論になるよう両方残す。
const ShippingFee int64 = 30

type QuoteItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// カート表示と注文確定の両方で使う見積もり。
// 価格計算をここに1本化し、2つの経路で計算がずれないようにする。
type Quote struct {
	Items      []QuoteItem `json:"items"`
	ItemsTotal int64       `json:"items_total"`
	Shipping   int64       `json:"shipping"`
	GrandTotal int64       `json:"grand_total"`
}

// BuildQuote はカート明細とその時点のProduct価格から合計を計算する。
// productsに無い・非公開の商品はスキップする。
func BuildQuote(items []model.CartItem, products map[int64]model.Product) Quote {
	q := Quote{Items: make([]QuoteItem, 0, len(items))}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			continue
		}

		subtotal := p.Price * it.Quantity
		q.Items = append(q.Items, QuoteItem{
			ProductID: it.ProductID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
		q.ItemsTotal += subtotal
	}

	if len(q.Items) > 0 {
		q.Shipping = ShippingFee
	}
	q.GrandTotal = q.ItemsTotal + q.Shipping

	return q
}
