package paymob

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolp(v bool) *bool { return &v }

func sampleObject() CallbackObject {
	return CallbackObject{
		AmountCents:          json.Number("28000"),
		CreatedAt:            "2026-01-15T10:00:00.000000",
		Currency:             "EGP",
		ErrorOccured:         boolp(false),
		HasParentTransaction: boolp(false),
		ID:                   json.Number("123456"),
		IntegrationID:        json.Number("44"),
		Is3DSecure:           boolp(true),
		IsAuth:               boolp(false),
		IsCapture:            boolp(false),
		IsRefunded:           boolp(false),
		IsStandalonePayment:  boolp(true),
		IsVoided:             boolp(false),
		Order: CallbackOrder{
			ID:              json.Number("777"),
			MerchantOrderID: "a1b2c3",
		},
		Owner:   json.Number("55"),
		Pending: boolp(false),
		SourceData: SourceData{
			Pan:     "2346",
			SubType: "MasterCard",
			Type:    "card",
		},
		Success: boolp(true),
	}
}

// 連結順は契約そのもの。期待値を直書きして固定する。
func TestSignedConcat_FieldOrder(t *testing.T) {
	obj := sampleObject()

	want := "28000" +
		"2026-01-15T10:00:00.000000" +
		"EGP" +
		"false" +
		"false" +
		"123456" +
		"44" +
		"true" +
		"false" +
		"false" +
		"false" +
		"true" +
		"false" +
		"777" +
		"55" +
		"false" +
		"2346" +
		"MasterCard" +
		"card" +
		"true"

	assert.Equal(t, want, obj.signedConcat())
}

// 欠落フィールドは空文字。false扱いにはしない。
func TestSignedConcat_MissingFieldsAreEmpty(t *testing.T) {
	obj := CallbackObject{}

	assert.Equal(t, "", obj.signedConcat())

	//nilとfalseは別物（署名が変わる）
	withFalse := CallbackObject{Pending: boolp(false)}
	assert.NotEqual(t, obj.signedConcat(), withFalse.signedConcat())
}

// json.Numberは到着した字句表現のまま使う。100と100.0は別の署名になる。
func TestSignedConcat_PreservesNumericLexicalForm(t *testing.T) {
	var a, b Callback
	assert.NoError(t, json.Unmarshal([]byte(`{"obj":{"amount_cents":100}}`), &a))
	assert.NoError(t, json.Unmarshal([]byte(`{"obj":{"amount_cents":100.0}}`), &b))

	assert.Equal(t, "100", a.Obj.AmountCents.String())
	assert.Equal(t, "100.0", b.Obj.AmountCents.String())
	assert.NotEqual(t, ComputeHMAC(a.Obj, "s"), ComputeHMAC(b.Obj, "s"))
}

func TestComputeHMAC_IsLowercaseHex(t *testing.T) {
	mac := ComputeHMAC(sampleObject(), "secret")

	// HMAC-SHA512 → 128 hex chars
	assert.Len(t, mac, 128)
	assert.Equal(t, strings.ToLower(mac), mac)
}

func TestVerifyHMAC_AcceptsComputedSignature(t *testing.T) {
	obj := sampleObject()
	mac := ComputeHMAC(obj, "secret")

	assert.True(t, VerifyHMAC(obj, "secret", mac))

	//大文字hexで届いても受け付ける
	assert.True(t, VerifyHMAC(obj, "secret", strings.ToUpper(mac)))
}

func TestVerifyHMAC_RejectsEmptyAndWrongSecret(t *testing.T) {
	obj := sampleObject()
	mac := ComputeHMAC(obj, "secret")

	assert.False(t, VerifyHMAC(obj, "secret", ""))
	assert.False(t, VerifyHMAC(obj, "other-secret", mac))
}

// 署名対象フィールドを1つでも書き換えたら検証は通らない。
func TestVerifyHMAC_RejectsTamperedFields(t *testing.T) {
	base := sampleObject()
	mac := ComputeHMAC(base, "secret")

	tampered := base
	tampered.AmountCents = json.Number("1")
	assert.False(t, VerifyHMAC(tampered, "secret", mac))

	tampered = base
	tampered.Success = boolp(false)
	assert.False(t, VerifyHMAC(tampered, "secret", mac))

	tampered = base
	tampered.Order.ID = json.Number("778")
	assert.False(t, VerifyHMAC(tampered, "secret", mac))

	tampered = base
	tampered.SourceData.Pan = "9999"
	assert.False(t, VerifyHMAC(tampered, "secret", mac))
}

// 2つのフィールドの値を入れ替えると連結順が変わり、署名も変わる
func TestVerifyHMAC_FieldPositionMatters(t *testing.T) {
	a := sampleObject()
	b := sampleObject()
	b.CreatedAt = a.Currency
	b.Currency = a.CreatedAt

	assert.NotEqual(t, ComputeHMAC(a, "secret"), ComputeHMAC(b, "secret"))
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, CallbackObject{Success: boolp(true)}.IsSuccess())
	assert.False(t, CallbackObject{Success: boolp(false)}.IsSuccess())

	//欠落はfalse扱い
	assert.False(t, CallbackObject{}.IsSuccess())
}

// merchant_order_idは署名対象外。書き換えても署名は変わらない
// （だからこそ引き当て先が見つからない場合は404で止める）。
func TestVerifyHMAC_MerchantOrderIDNotSigned(t *testing.T) {
	obj := sampleObject()
	mac := ComputeHMAC(obj, "secret")

	obj.Order.MerchantOrderID = "something-else"
	assert.True(t, VerifyHMAC(obj, "secret", mac))
}
