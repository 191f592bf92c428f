package paymob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

var (
	//認証トークンの取得失敗
	ErrAuthFailed = errors.New("paymob: authentication failed")
	//リモート注文の登録失敗
	ErrOrderFailed = errors.New("paymob: order registration failed")
	//payment keyの発行失敗
	ErrPaymentKeyFailed = errors.New("paymob: payment key request failed")
	//ゲートウェイ呼び出しのタイムアウト
	ErrTimeout = errors.New("paymob: request timed out")
)

const DefaultBaseURL = "https://accept.paymob.com/api"

// Paymob側のトークン有効期限は1時間。余裕をみて50分でキャッシュを切る。
const tokenTTL = 50 * time.Minute

const defaultHTTPTimeout = 15 * time.Second

type Config struct {
	BaseURL       string
	APIKey        string
	HMACSecret    string
	IntegrationID int64
	IframeID      string
}

// Paymobゲートウェイのクライアント。
// 認証トークンはプロセス内キャッシュ。tokenとexpiryは必ずmuの中で読み書きする。
type Client struct {
	cfg  Config
	http *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Authenticate はAPIキーを短命のbearerトークンに交換する。
// 有効期限内ならキャッシュを返す。期限切れなら再認証。
// 競合した場合は二重に取得してもよいが、期限切れトークンを返すことはない。
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	//ロックの外でネットワーク呼び出し
	reqBody := map[string]any{
		"api_key": c.cfg.APIKey,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/auth/tokens", reqBody, &resp, ErrAuthFailed); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", ErrAuthFailed)
	}

	c.mu.Lock()
	c.token = resp.Token
	c.tokenExpiry = time.Now().Add(tokenTTL)
	c.mu.Unlock()

	return resp.Token, nil
}

// RegisterOrder は注文総額（ピアストル単位）をゲートウェイに登録する。
// merchantRefはコールバック照合用にmerchant_order_idとして渡す。
func (c *Client) RegisterOrder(ctx context.Context, token string, amountCents int64, merchantRef string) (int64, error) {
	reqBody := map[string]any{
		"auth_token":        token,
		"delivery_needed":   false,
		"amount_cents":      amountCents,
		"currency":          "EGP",
		"items":             []any{},
		"merchant_order_id": merchantRef,
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.postJSON(ctx, "/ecommerce/orders", reqBody, &resp, ErrOrderFailed); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return 0, fmt.Errorf("%w: empty order id in response", ErrOrderFailed)
	}
	return resp.ID, nil
}

// PaymentKey はリモート注文に対するpayment keyを発行する。
func (c *Client) PaymentKey(ctx context.Context, token string, amountCents int64, remoteOrderID int64, billing BillingData) (string, error) {
	reqBody := map[string]any{
		"auth_token":     token,
		"amount_cents":   amountCents,
		"expiration":     3600,
		"order_id":       remoteOrderID,
		"billing_data":   billing.withDefaults(),
		"currency":       "EGP",
		"integration_id": c.cfg.IntegrationID,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/acceptance/payment_keys", reqBody, &resp, ErrPaymentKeyFailed); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty payment key in response", ErrPaymentKeyFailed)
	}
	return resp.Token, nil
}

// IframeURL はpayment keyから決済ページのURLを組み立てる。ネットワーク呼び出しなし。
func (c *Client) IframeURL(paymentKey string) string {
	return fmt.Sprintf("%s/acceptance/iframes/%s?payment_token=%s", c.cfg.BaseURL, c.cfg.IframeID, paymentKey)
}

// HMACSecret はコールバック検証用の共有シークレットを返す。
func (c *Client) HMACSecret() string {
	return c.cfg.HMACSecret
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any, failErr error) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %v", failErr, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", failErr, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", failErr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", failErr, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", failErr, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
