package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payflow/internal/models"
	"payflow/internal/pkg/httpclient"
)

// FastPayOptions holds the wire fields FastPay requires that the inbound
// request does not carry.
type FastPayOptions struct {
	PayerEmail   string
	Installments int
	Description  string
}

type fastPayPayer struct {
	Email string `json:"email"`
}

type fastPayRequest struct {
	TransactionAmount float64      `json:"transaction_amount"`
	Currency          string       `json:"currency"`
	Payer             fastPayPayer `json:"payer"`
	Installments      int          `json:"installments"`
	Description       string       `json:"description"`
}

type fastPayResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

// FastPayGateway implements the Gateway interface for FastPay.
type FastPayGateway struct {
	url    string
	opts   FastPayOptions
	client *httpclient.Client
}

func NewFastPayGateway(url string, opts FastPayOptions, timeout time.Duration) *FastPayGateway {
	if opts.Installments <= 0 {
		opts.Installments = 1
	}
	return &FastPayGateway{
		url:    strings.TrimSpace(url),
		opts:   opts,
		client: httpclient.New().WithTimeout(timeout),
	}
}

func (f *FastPayGateway) Provider() Provider {
	return FastPay
}

func (f *FastPayGateway) Endpoint() string {
	return f.url
}

func (f *FastPayGateway) Call(ctx context.Context, req models.PaymentRequest) CallResult {
	body := fastPayRequest{
		TransactionAmount: req.Amount.InexactFloat64(),
		Currency:          req.Currency,
		Payer:             fastPayPayer{Email: f.opts.PayerEmail},
		Installments:      f.opts.Installments,
		Description:       f.opts.Description,
	}

	var resp fastPayResponse
	if err := f.client.PostJSON(ctx, f.url, body, &resp); err != nil {
		return failed(fmt.Errorf("%w: fastpay: %w", ErrProviderTransport, err))
	}

	return CallResult{
		OK:         true,
		ExternalID: resp.ID,
		Status:     statusOrUnknown(resp.Status),
	}
}

func statusOrUnknown(status string) string {
	if strings.TrimSpace(status) == "" {
		return "unknown"
	}
	return status
}
