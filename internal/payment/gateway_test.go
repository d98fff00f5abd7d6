package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type providerStub struct {
	server *httptest.Server
	calls  atomic.Int32
	body   map[string]interface{}
}

func newProviderStub(t *testing.T, status int, response string) *providerStub {
	t.Helper()
	stub := &providerStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&stub.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func TestFastPayGateway_Success(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"id":"FP-884512","status":"approved","status_detail":"Pagamento aprovado"}`)
	g := NewFastPayGateway(stub.server.URL, FastPayOptions{
		PayerEmail:   "payer@example.com",
		Installments: 1,
		Description:  "order",
	}, time.Second)

	res := g.Call(context.Background(), request("50.5", "BRL"))
	require.True(t, res.OK, "unexpected failure: %v", res.Err)
	assert.Equal(t, "FP-884512", res.ExternalID)
	assert.Equal(t, "approved", res.Status)

	assert.EqualValues(t, 1, stub.calls.Load())
	assert.Equal(t, 50.5, stub.body["transaction_amount"])
	assert.Equal(t, "BRL", stub.body["currency"])
	assert.Equal(t, map[string]interface{}{"email": "payer@example.com"}, stub.body["payer"])
	assert.EqualValues(t, 1, stub.body["installments"])
	assert.Equal(t, "order", stub.body["description"])
}

func TestFastPayGateway_DefaultsInstallments(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"id":"FP-1","status":""}`)
	g := NewFastPayGateway(stub.server.URL, FastPayOptions{}, time.Second)

	res := g.Call(context.Background(), request("10", "BRL"))
	require.True(t, res.OK)
	assert.Equal(t, "unknown", res.Status)
	assert.EqualValues(t, 1, stub.body["installments"])
}

func TestSecurePayGateway_Success(t *testing.T) {
	stub := newProviderStub(t, http.StatusCreated, `{"transaction_id":"SP-19283","result":"success"}`)
	g := NewSecurePayGateway(stub.server.URL, time.Second)
	g.newRef = func() string { return "ref-1" }

	res := g.Call(context.Background(), request("200.50", "BRL"))
	require.True(t, res.OK, "unexpected failure: %v", res.Err)
	assert.Equal(t, "SP-19283", res.ExternalID)
	assert.Equal(t, "success", res.Status)

	assert.EqualValues(t, 1, stub.calls.Load())
	assert.EqualValues(t, 20050, stub.body["amount_cents"])
	assert.Equal(t, "BRL", stub.body["currency_code"])
	assert.Equal(t, "ref-1", stub.body["client_reference"])
}

func TestSecurePayGateway_GeneratesClientReference(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"transaction_id":"SP-1","result":"success"}`)
	g := NewSecurePayGateway(stub.server.URL, time.Second)

	res := g.Call(context.Background(), request("150", "BRL"))
	require.True(t, res.OK)
	ref, _ := stub.body["client_reference"].(string)
	assert.Len(t, ref, 36)
}

func TestGateways_Failures(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		response string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"client error", http.StatusBadRequest, `{}`},
		{"unparseable body", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newProviderStub(t, tc.status, tc.response)
			gateways := []Gateway{
				NewFastPayGateway(stub.server.URL, FastPayOptions{}, time.Second),
				NewSecurePayGateway(stub.server.URL, time.Second),
			}
			for _, g := range gateways {
				res := g.Call(context.Background(), request("50", "BRL"))
				assert.False(t, res.OK)
				assert.Empty(t, res.ExternalID)
				assert.Empty(t, res.Status)
				assert.ErrorIs(t, res.Err, ErrProviderTransport)
			}
			assert.EqualValues(t, len(gateways), stub.calls.Load(), "one request per call, no retries")
		})
	}
}

func TestGateways_SuccessWithoutID(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"status":"approved","status_detail":"ok"}`)
	fast := NewFastPayGateway(stub.server.URL, FastPayOptions{}, time.Second).
		Call(context.Background(), request("50", "BRL"))
	require.True(t, fast.OK)
	assert.Empty(t, fast.ExternalID)
	assert.Equal(t, "approved", fast.Status)

	stub = newProviderStub(t, http.StatusOK, `{}`)
	secure := NewSecurePayGateway(stub.server.URL, time.Second).
		Call(context.Background(), request("150", "BRL"))
	require.True(t, secure.OK)
	assert.Empty(t, secure.ExternalID)
	assert.Equal(t, "unknown", secure.Status)
}

func TestGateways_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	res := NewFastPayGateway(server.URL, FastPayOptions{}, 50*time.Millisecond).
		Call(context.Background(), request("50", "BRL"))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrProviderTransport)
}

func TestGateways_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := NewSecurePayGateway(url, time.Second).Call(context.Background(), request("150", "BRL"))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrProviderTransport)
}

func TestOrchestrator_ScenariosOverHTTP(t *testing.T) {
	t.Run("fastpay unreachable falls back to securepay", func(t *testing.T) {
		fast := newProviderStub(t, http.StatusServiceUnavailable, `{}`)
		secure := newProviderStub(t, http.StatusOK, `{"transaction_id":"SP-19283","result":"success"}`)
		o := NewOrchestrator(zap.NewNop(),
			NewFastPayGateway(fast.server.URL, FastPayOptions{}, time.Second),
			NewSecurePayGateway(secure.server.URL, time.Second))

		resp, err := o.Process(context.Background(), request("50", "BRL"))
		require.NoError(t, err)
		assert.Equal(t, "SecurePay", resp.Provider)
		assert.Equal(t, "SP-19283", resp.ExternalID)
		assert.Equal(t, "0.75", resp.Fee.StringFixed(2))
		assert.EqualValues(t, 1, fast.calls.Load())
		assert.EqualValues(t, 1, secure.calls.Load())
	})

	t.Run("primary answering without id is not retried", func(t *testing.T) {
		fast := newProviderStub(t, http.StatusOK, `{"status":"approved","status_detail":"ok"}`)
		secure := newProviderStub(t, http.StatusOK, `{"transaction_id":"SP-19283","result":"success"}`)
		o := NewOrchestrator(zap.NewNop(),
			NewFastPayGateway(fast.server.URL, FastPayOptions{}, time.Second),
			NewSecurePayGateway(secure.server.URL, time.Second))

		resp, err := o.Process(context.Background(), request("50", "BRL"))
		require.NoError(t, err)
		assert.Equal(t, "FastPay", resp.Provider)
		assert.Empty(t, resp.ExternalID)
		assert.Equal(t, "approved", resp.Status)
		assert.EqualValues(t, 1, fast.calls.Load())
		assert.Zero(t, secure.calls.Load())
	})

	t.Run("both unreachable records two calls", func(t *testing.T) {
		fast := newProviderStub(t, http.StatusBadGateway, `{}`)
		secure := newProviderStub(t, http.StatusBadGateway, `{}`)
		o := NewOrchestrator(zap.NewNop(),
			NewFastPayGateway(fast.server.URL, FastPayOptions{}, time.Second),
			NewSecurePayGateway(secure.server.URL, time.Second))

		_, err := o.Process(context.Background(), request("50", "BRL"))
		assert.ErrorIs(t, err, ErrAllProvidersUnavailable)
		assert.EqualValues(t, 2, fast.calls.Load()+secure.calls.Load())
	})

	t.Run("negative amount issues no calls", func(t *testing.T) {
		fast := newProviderStub(t, http.StatusOK, `{"id":"FP-1","status":"approved"}`)
		secure := newProviderStub(t, http.StatusOK, `{"transaction_id":"SP-1","result":"success"}`)
		o := NewOrchestrator(zap.NewNop(),
			NewFastPayGateway(fast.server.URL, FastPayOptions{}, time.Second),
			NewSecurePayGateway(secure.server.URL, time.Second))

		_, err := o.Process(context.Background(), request("-10", "BRL"))
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Zero(t, fast.calls.Load()+secure.calls.Load())
	})
}
