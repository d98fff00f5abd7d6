package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"payflow/internal/models"
	"payflow/internal/pkg/httpclient"
)

type securePayRequest struct {
	AmountCents     int64  `json:"amount_cents"`
	CurrencyCode    string `json:"currency_code"`
	ClientReference string `json:"client_reference"`
}

type securePayResponse struct {
	TransactionID string `json:"transaction_id"`
	Result        string `json:"result"`
}

// SecurePayGateway implements the Gateway interface for SecurePay.
type SecurePayGateway struct {
	url    string
	client *httpclient.Client
	newRef func() string
}

func NewSecurePayGateway(url string, timeout time.Duration) *SecurePayGateway {
	return &SecurePayGateway{
		url:    strings.TrimSpace(url),
		client: httpclient.New().WithTimeout(timeout),
		newRef: uuid.NewString,
	}
}

func (s *SecurePayGateway) Provider() Provider {
	return SecurePay
}

func (s *SecurePayGateway) Endpoint() string {
	return s.url
}

func (s *SecurePayGateway) Call(ctx context.Context, req models.PaymentRequest) CallResult {
	body := securePayRequest{
		AmountCents:     req.Amount.Shift(2).Round(0).IntPart(),
		CurrencyCode:    req.Currency,
		ClientReference: s.newRef(),
	}

	var resp securePayResponse
	if err := s.client.PostJSON(ctx, s.url, body, &resp); err != nil {
		return failed(fmt.Errorf("%w: securepay: %w", ErrProviderTransport, err))
	}

	return CallResult{
		OK:         true,
		ExternalID: resp.TransactionID,
		Status:     statusOrUnknown(resp.Result),
	}
}
