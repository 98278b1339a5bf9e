// Package paystack implements payment.Gateway over the Paystack REST API.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/unimarket/internal/payment"
)

const SignatureHeader = "x-paystack-signature"

var ErrNoPayoutAccount = errors.New("charge has no payout account")

type Config struct {
	SecretKey string
	BaseURL   string
	Currency  string
	Timeout   time.Duration
}

type Client struct {
	secretKey string
	baseURL   string
	currency  string
	http      *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: timeout},
	}
}

// envelope wraps every Paystack response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", payment.ErrGateway, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %s %s: status %d: decoding response: %w", payment.ErrGateway, method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("%w: %s %s: status %d: %s", payment.ErrGateway, method, path, resp.StatusCode, env.Message)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: decoding data: %w", payment.ErrGateway, method, path, err)
	}

	return nil
}

type initializeRequest struct {
	Email       string           `json:"email"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	Reference   string           `json:"reference"`
	CallbackURL string           `json:"callback_url,omitempty"`
	Metadata    payment.Metadata `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

func (c *Client) Initialize(ctx context.Context, params payment.InitializeParams) (*payment.Session, error) {
	var data initializeData

	err := c.do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:       params.Email,
		Amount:      params.Amount,
		Currency:    c.currency,
		Reference:   params.Reference,
		CallbackURL: params.CallbackURL,
		Metadata:    params.Metadata,
	}, &data)
	if err != nil {
		return nil, err
	}

	return &payment.Session{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

type verifyData struct {
	Status    string     `json:"status"`
	Reference string     `json:"reference"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	PaidAt    *time.Time `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Authorization struct {
		AccountNumber string `json:"account_number"`
		BankCode      string `json:"bank_code"`
		AccountName   string `json:"account_name"`
	} `json:"authorization"`
	Metadata json.RawMessage `json:"metadata"`
}

func (c *Client) verify(ctx context.Context, reference string) (*verifyData, error) {
	var data verifyData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*payment.Verification, error) {
	data, err := c.verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	md, err := decodeMetadata(data.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding metadata for %s: %w", payment.ErrGateway, reference, err)
	}

	return &payment.Verification{
		Reference:     data.Reference,
		Status:        payment.ChargeStatus(data.Status),
		Amount:        data.Amount,
		Currency:      data.Currency,
		PaidAt:        data.PaidAt,
		CustomerEmail: data.Customer.Email,
		Metadata:      md,
	}, nil
}

// decodeMetadata accepts the metadata object, a JSON string holding one, or
// the empty string Paystack returns when no metadata was sent.
func decodeMetadata(raw json.RawMessage) (payment.Metadata, error) {
	var md payment.Metadata

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return md, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return md, err
		}

		if strings.TrimSpace(s) == "" {
			return md, nil
		}

		raw = json.RawMessage(s)
	}

	if err := json.Unmarshal(raw, &md); err != nil {
		return md, err
	}

	return md, nil
}

type refundRequest struct {
	Transaction  string `json:"transaction"`
	Amount       int64  `json:"amount,omitempty"`
	Currency     string `json:"currency,omitempty"`
	MerchantNote string `json:"merchant_note,omitempty"`
}

func (c *Client) Refund(ctx context.Context, reference string, amount int64, reason string) error {
	return c.do(ctx, http.MethodPost, "/refund", refundRequest{
		Transaction:  reference,
		Amount:       amount,
		Currency:     c.currency,
		MerchantNote: reason,
	}, nil)
}

type recipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency,omitempty"`
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// ReleaseEscrowFunds looks the charge up again, registers its paying account
// as a transfer recipient and pays the charged amount out from the balance.
func (c *Client) ReleaseEscrowFunds(ctx context.Context, reference string) (*payment.Transfer, error) {
	charge, err := c.verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	if charge.Authorization.AccountNumber == "" || charge.Authorization.BankCode == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPayoutAccount, reference)
	}

	name := charge.Authorization.AccountName
	if name == "" {
		name = charge.Customer.Email
	}

	var recipient struct {
		RecipientCode string `json:"recipient_code"`
	}

	err = c.do(ctx, http.MethodPost, "/transferrecipient", recipientRequest{
		Type:          "nuban",
		Name:          name,
		AccountNumber: charge.Authorization.AccountNumber,
		BankCode:      charge.Authorization.BankCode,
		Currency:      c.currency,
	}, &recipient)
	if err != nil {
		return nil, err
	}

	var transfer struct {
		Reference    string `json:"reference"`
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	}

	err = c.do(ctx, http.MethodPost, "/transfer", transferRequest{
		Source:    "balance",
		Amount:    charge.Amount,
		Recipient: recipient.RecipientCode,
		Reference: "escrow_release_" + reference,
		Reason:    "Escrow release for transaction " + reference,
	}, &transfer)
	if err != nil {
		return nil, err
	}

	return &payment.Transfer{
		Reference:    transfer.Reference,
		TransferCode: transfer.TransferCode,
		Status:       transfer.Status,
	}, nil
}

// Sign returns the hex HMAC-SHA512 of body keyed with the secret key, as sent
// in the signature header of webhooks.
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

type webhookBody struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

func (c *Client) ParseWebhook(body []byte, signature string) (*payment.WebhookEvent, error) {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || signature == "" {
		return nil, payment.ErrInvalidSignature
	}

	want, _ := hex.DecodeString(c.Sign(body))
	if !hmac.Equal(got, want) {
		return nil, payment.ErrInvalidSignature
	}

	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("decoding webhook: %w", err)
	}

	return &payment.WebhookEvent{Event: wb.Event, Reference: wb.Data.Reference}, nil
}
