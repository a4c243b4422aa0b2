package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/adapter/http/handler"
	apimiddleware "github.com/easymove/remit/internal/adapter/http/middleware"
	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"email":"a@example.com","name":"Alice","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/quotes",
		"POST /api/v1/accounts",
		"GET /api/v1/accounts/{id}",
		"POST /api/v1/transactions",
		"POST /api/v1/transactions/{id}/cancel",
		"POST /api/v1/transactions/{id}/refund",
		"GET /api/v1/track/{trackingNumber}",
		"GET /api/v1/rates",
		"POST /api/v1/webhooks/payment",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:      &handler.HealthHandler{},
		AccountHandler:     handler.NewAccountHandler(&stubAccountService{}),
		TransactionHandler: handler.NewTransactionHandler(&stubTransactionService{}),
		RateHandler:        handler.NewRateHandler(&stubRateService{}),
		WebhookHandler:     handler.NewWebhookHandler(&stubTransactionService{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

type stubAccountService struct{}

func (s *stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acct-1", Email: input.Email}, nil
}

func (s *stubAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (s *stubAccountService) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	return &domain.Account{ID: id, Balance: amount}, nil
}

func (s *stubAccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return nil, nil
}

type stubTransactionService struct{}

func (s *stubTransactionService) GetQuote(ctx context.Context, input usecase.QuoteInput) (*usecase.Quote, error) {
	return &usecase.Quote{}, nil
}

func (s *stubTransactionService) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (s *stubTransactionService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (s *stubTransactionService) List(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error) {
	return nil, nil
}

func (s *stubTransactionService) Cancel(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (s *stubTransactionService) Refund(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (s *stubTransactionService) UpdateStatus(ctx context.Context, id string, next domain.Status, reason string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id, Status: next}, nil
}

func (s *stubTransactionService) StartProcessing(ctx context.Context, id, paymentID string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id, PaymentID: paymentID}, nil
}

func (s *stubTransactionService) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1", TransactionID: transactionID}, nil
}

func (s *stubTransactionService) Track(ctx context.Context, trackingNumber string) (*usecase.TrackingInfo, error) {
	return &usecase.TrackingInfo{TrackingNumber: trackingNumber}, nil
}

func (s *stubTransactionService) GetStats(ctx context.Context, senderID string) (*usecase.Stats, error) {
	return &usecase.Stats{}, nil
}

type stubRateService struct{}

func (s *stubRateService) Corridors(ctx context.Context) ([]usecase.Corridor, error) {
	return nil, nil
}

func (s *stubRateService) GetPair(ctx context.Context, from, to string) (*domain.CurrencyPair, error) {
	return &domain.CurrencyPair{From: from, To: to}, nil
}

func (s *stubRateService) History(ctx context.Context, from, to string, limit int) ([]domain.RateSample, error) {
	return nil, nil
}

func (s *stubRateService) Alerts(ctx context.Context, thresholdPercent float64) ([]usecase.Alert, error) {
	return nil, nil
}

func (s *stubRateService) RecordRate(ctx context.Context, from, to string, rate decimal.Decimal, source string) (*domain.CurrencyPair, error) {
	return &domain.CurrencyPair{From: from, To: to, CurrentRate: rate}, nil
}

func (s *stubRateService) SetMargin(ctx context.Context, from, to string, margin decimal.Decimal) (*domain.CurrencyPair, error) {
	return &domain.CurrencyPair{From: from, To: to, Margin: margin}, nil
}
