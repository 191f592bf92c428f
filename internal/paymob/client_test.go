package paymob

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:       srv.URL,
		APIKey:        "test-api-key",
		HMACSecret:    "test-hmac",
		IntegrationID: 44,
		IframeID:      "123",
	})
	return c, srv
}

func TestAuthenticate_ExchangesAPIKeyForToken(t *testing.T) {
	var gotKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/tokens", r.URL.Path)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotKey, _ = body["api_key"].(string)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))

	token, err := c.Authenticate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "test-api-key", gotKey)
}

func TestAuthenticate_CachesToken(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))

	for i := 0; i < 3; i++ {
		token, err := c.Authenticate(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	}

	//2回目以降はキャッシュ。ネットワークは1回だけ。
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAuthenticate_RefreshesExpiredToken(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := "tok-1"
		if atomic.AddInt32(&calls, 1) > 1 {
			token = "tok-2"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))

	_, err := c.Authenticate(context.Background())
	assert.NoError(t, err)

	//期限切れにする
	c.mu.Lock()
	c.tokenExpiry = time.Now().Add(-time.Minute)
	c.mu.Unlock()

	token, err := c.Authenticate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAuthenticate_FailureStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestRegisterOrder_SendsContract(t *testing.T) {
	var body map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ecommerce/orders", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 987654})
	}))

	id, err := c.RegisterOrder(context.Background(), "tok-1", 28000, "ref-abc")
	assert.NoError(t, err)
	assert.Equal(t, int64(987654), id)

	assert.Equal(t, "tok-1", body["auth_token"])
	assert.Equal(t, false, body["delivery_needed"])
	assert.Equal(t, float64(28000), body["amount_cents"])
	assert.Equal(t, "EGP", body["currency"])
	assert.Equal(t, "ref-abc", body["merchant_order_id"])
}

func TestRegisterOrder_Failure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	_, err := c.RegisterOrder(context.Background(), "tok-1", 28000, "ref-abc")
	assert.ErrorIs(t, err, ErrOrderFailed)
}

func TestPaymentKey_FillsBillingDefaults(t *testing.T) {
	var body map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acceptance/payment_keys", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "pk-1"})
	}))

	billing := BillingData{
		FirstName:   "Ahmed",
		Email:       "ahmed@example.com",
		PhoneNumber: "+201000000000",
		Street:      "Tahrir St",
		City:        "Giza",
	}
	key, err := c.PaymentKey(context.Background(), "tok-1", 28000, 987654, billing)
	assert.NoError(t, err)
	assert.Equal(t, "pk-1", key)

	assert.Equal(t, float64(3600), body["expiration"])
	assert.Equal(t, float64(987654), body["order_id"])
	assert.Equal(t, float64(44), body["integration_id"])

	//入力した値はそのまま、欠けている項目だけ既定値
	bd, _ := body["billing_data"].(map[string]any)
	assert.Equal(t, "Ahmed", bd["first_name"])
	assert.Equal(t, "Tahrir St", bd["street"])
	assert.Equal(t, "Giza", bd["city"])
	assert.Equal(t, "Customer", bd["last_name"])
	assert.Equal(t, "1", bd["building"])
	assert.Equal(t, "1", bd["floor"])
	assert.Equal(t, "1", bd["apartment"])
	assert.Equal(t, "Cairo", bd["state"])
	assert.Equal(t, "EG", bd["country"])
	assert.Equal(t, "12345", bd["postal_code"])
	assert.Equal(t, "PKG", bd["shipping_method"])
}

func TestIframeURL(t *testing.T) {
	c := NewClient(Config{
		BaseURL:  "https://accept.example.com/api",
		IframeID: "123",
	})

	assert.Equal(t,
		"https://accept.example.com/api/acceptance/iframes/123?payment_token=pk-1",
		c.IframeURL("pk-1"))
}

func TestPostJSON_TimeoutMapsToErrTimeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	c.http.Timeout = 30 * time.Millisecond

	_, err := c.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestPostJSON_ContextDeadlineMapsToErrTimeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.Authenticate(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}
