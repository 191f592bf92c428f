package paymob

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// トランザクションコールバックのPOSTボディ。
// 実データはobjの下にネストされ、署名はhmacクエリパラメータで届く。
type Callback struct {
	Type string         `json:"type"`
	Obj  CallbackObject `json:"obj"`
}

// 署名対象のフィールドを持つトランザクションオブジェクト。
// 数値はjson.Numberで受けて、到着した字句表現のまま連結に使う。
type CallbackObject struct {
	AmountCents          json.Number   `json:"amount_cents"`
	CreatedAt            string        `json:"created_at"`
	Currency             string        `json:"currency"`
	ErrorOccured         *bool         `json:"error_occured"`
	HasParentTransaction *bool         `json:"has_parent_transaction"`
	ID                   json.Number   `json:"id"`
	IntegrationID        json.Number   `json:"integration_id"`
	Is3DSecure           *bool         `json:"is_3d_secure"`
	IsAuth               *bool         `json:"is_auth"`
	IsCapture            *bool         `json:"is_capture"`
	IsRefunded           *bool         `json:"is_refunded"`
	IsStandalonePayment  *bool         `json:"is_standalone_payment"`
	IsVoided             *bool         `json:"is_voided"`
	Order                CallbackOrder `json:"order"`
	Owner                json.Number   `json:"owner"`
	Pending              *bool         `json:"pending"`
	SourceData           SourceData    `json:"source_data"`
	Success              *bool         `json:"success"`
}

type CallbackOrder struct {
	ID json.Number `json:"id"`

	//RegisterOrderで渡したmerchant_order_idがそのまま返る。
	//Orderへの引き当てはこの値で行う。
	MerchantOrderID string `json:"merchant_order_id"`
}

type SourceData struct {
	Pan     string `json:"pan"`
	SubType string `json:"sub_type"`
	Type    string `json:"type"`
}

// successの真偽。欠落はfalse扱い。
func (o CallbackObject) IsSuccess() bool {
	return o.Success != nil && *o.Success
}

// 署名対象フィールドをPaymobの規定順で連結する。
// 順序・ネスト（order.id / source_data.*）は契約の一部。欠落は空文字。
// この順を1つでも入れ替えると署名は一致しなくなる。
func (o CallbackObject) signedConcat() string {
	var b strings.Builder
	b.WriteString(o.AmountCents.String())
	b.WriteString(o.CreatedAt)
	b.WriteString(o.Currency)
	b.WriteString(boolField(o.ErrorOccured))
	b.WriteString(boolField(o.HasParentTransaction))
	b.WriteString(o.ID.String())
	b.WriteString(o.IntegrationID.String())
	b.WriteString(boolField(o.Is3DSecure))
	b.WriteString(boolField(o.IsAuth))
	b.WriteString(boolField(o.IsCapture))
	b.WriteString(boolField(o.IsRefunded))
	b.WriteString(boolField(o.IsStandalonePayment))
	b.WriteString(boolField(o.IsVoided))
	b.WriteString(o.Order.ID.String())
	b.WriteString(o.Owner.String())
	b.WriteString(boolField(o.Pending))
	b.WriteString(o.SourceData.Pan)
	b.WriteString(o.SourceData.SubType)
	b.WriteString(o.SourceData.Type)
	b.WriteString(boolField(o.Success))
	return b.String()
}

func boolField(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

// ComputeHMAC は連結文字列のHMAC-SHA512を小文字hexで返す。
func ComputeHMAC(obj CallbackObject, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(obj.signedConcat()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC は計算した署名と受信した署名をバイト単位で比較する。
func VerifyHMAC(obj CallbackObject, secret string, provided string) bool {
	if provided == "" {
		return false
	}
	computed := ComputeHMAC(obj, secret)
	return hmac.Equal([]byte(computed), []byte(strings.ToLower(provided)))
}
