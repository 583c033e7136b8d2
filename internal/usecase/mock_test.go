//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/adapter"
	"subscription-billing/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================
// Adapters
// =============================

type MockPaymentGateway struct {
	NameVal string

	CreatePaymentFunc func(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error)
	PaymentStatusFunc func(ctx context.Context, paymentID string) (*adapter.PaymentStatus, error)

	mu          sync.Mutex
	CreateCalls []adapter.PaymentRequest
	StatusCalls []string
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string {
	if m.NameVal == "" {
		return "mockpay"
	}
	return m.NameVal
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, req)
	m.mu.Unlock()
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req)
	}
	id := "PAY-" + uuid.NewString()
	return &adapter.PaymentIntent{PaymentID: id, URL: "https://pay.example/" + id}, nil
}

func (m *MockPaymentGateway) PaymentStatus(ctx context.Context, paymentID string) (*adapter.PaymentStatus, error) {
	m.mu.Lock()
	m.StatusCalls = append(m.StatusCalls, paymentID)
	m.mu.Unlock()
	if m.PaymentStatusFunc != nil {
		return m.PaymentStatusFunc(ctx, paymentID)
	}
	return &adapter.PaymentStatus{PaymentID: paymentID, Status: "Pending", Created: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (m *MockPaymentGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls) + len(m.StatusCalls)
}

type MockGatewayRegistry struct {
	Gateways map[string]adapter.PaymentGateway
	Def      string
}

var _ adapter.GatewayRegistry = (*MockGatewayRegistry)(nil)

func NewMockGatewayRegistry(g adapter.PaymentGateway) *MockGatewayRegistry {
	return &MockGatewayRegistry{Gateways: map[string]adapter.PaymentGateway{g.Name(): g}, Def: g.Name()}
}

func (m *MockGatewayRegistry) Get(name string) (adapter.PaymentGateway, error) {
	if name == "" {
		name = m.Def
	}
	g, ok := m.Gateways[name]
	if !ok {
		return nil, domain.ErrUnknownGateway
	}
	return g, nil
}

func (m *MockGatewayRegistry) Default() string { return m.Def }

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	Accounts map[string]string // account -> user id
	Empty    map[string]bool   // user id -> profile empty

	IsProfileEmptyFunc func(ctx context.Context, tx repository.Tx, userID string) (bool, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Accounts: map[string]string{}, Empty: map[string]bool{}}
}

func (m *MockUserRepo) ResolveAccount(ctx context.Context, tx repository.Tx, account string) (string, error) {
	id, ok := m.Accounts[account]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	for acc, uid := range m.Accounts {
		if uid == id {
			return &model.User{ID: id, Account: acc}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) IsProfileEmpty(ctx context.Context, tx repository.Tx, userID string) (bool, error) {
	if m.IsProfileEmptyFunc != nil {
		return m.IsProfileEmptyFunc(ctx, tx, userID)
	}
	return m.Empty[userID], nil
}

// ---- Mock FareRuleRepository ----

type MockFareRuleRepo struct {
	Rules []*model.FareRule
}

var _ repository.FareRuleRepository = (*MockFareRuleRepo)(nil)

func (m *MockFareRuleRepo) GetByPublicID(ctx context.Context, tx repository.Tx, publicID string) (*model.FareRule, error) {
	for _, r := range m.Rules {
		if r.PublicID == publicID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockFareRuleRepo) GetByID(ctx context.Context, tx repository.Tx, ruleID int64) (*model.FareRule, error) {
	for _, r := range m.Rules {
		if r.RuleID == ruleID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- Mock DiscountRepository ----

type MockDiscountRepo struct {
	Percents map[int]decimal.Decimal // months -> percent (service category)

	GetPercentDiscountFunc func(ctx context.Context, tx repository.Tx, months int, category model.DiscountCategory) (model.DiscountRate, error)
}

var _ repository.DiscountRepository = (*MockDiscountRepo)(nil)

func (m *MockDiscountRepo) GetPercentDiscount(ctx context.Context, tx repository.Tx, months int, category model.DiscountCategory) (model.DiscountRate, error) {
	if m.GetPercentDiscountFunc != nil {
		return m.GetPercentDiscountFunc(ctx, tx, months, category)
	}
	return model.DiscountRate{Months: months, Category: category, Percent: m.Percents[months]}, nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	Active map[string]*model.UserSubscription
	Window map[string]model.SubscriptionWindow
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{Active: map[string]*model.UserSubscription{}, Window: map[string]model.SubscriptionWindow{}}
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	s, ok := m.Active[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *MockSubscriptionRepo) UsageWindow(ctx context.Context, tx repository.Tx, userID string) (model.SubscriptionWindow, error) {
	return m.Window[userID], nil
}

// ---- Mock OrderRepository ----

type MockOrderRepo struct {
	mu     sync.Mutex
	Orders map[string]*model.OrderRecord

	SaveFunc func(ctx context.Context, tx repository.Tx, o *model.OrderRecord) error
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{Orders: map[string]*model.OrderRecord{}}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.OrderRecord) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.Orders[o.OrderID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, orderID string) (*model.OrderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (m *MockOrderRepo) GetOrderDetails(ctx context.Context, tx repository.Tx, orderID, userID string) (*model.OrderDetails, error) {
	o, err := m.FindByID(ctx, tx, orderID)
	if err != nil || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &model.OrderDetails{OrderID: o.OrderID, Price: o.Amount}, nil
}

func (m *MockOrderRepo) FindActiveOrderID(ctx context.Context, tx repository.Tx, months int, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.Orders {
		if o.UserID == userID && o.Months == months && o.Status == model.OrderStatusSucceeded {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *MockOrderRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Orders)
}

// ---- Mock OrderCacheStore (no expiry) ----

type MockOrderCache struct {
	mu    sync.Mutex
	Items map[repository.OrderCacheKey]model.StagedOrder
	TTLs  map[repository.OrderCacheKey]time.Duration
}

var _ repository.OrderCacheStore = (*MockOrderCache)(nil)

func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{Items: map[repository.OrderCacheKey]model.StagedOrder{}, TTLs: map[repository.OrderCacheKey]time.Duration{}}
}

func (m *MockOrderCache) Key(userID, publicID string) repository.OrderCacheKey {
	return repository.NewOrderCacheKey(userID, publicID)
}

func (m *MockOrderCache) Stage(ctx context.Context, key repository.OrderCacheKey, order *model.StagedOrder, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[key] = *order
	m.TTLs[key] = ttl
	return nil
}

func (m *MockOrderCache) Read(ctx context.Context, key repository.OrderCacheKey) (*model.StagedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Items[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

// ---- In-memory CheckoutClaimer ----

type MockClaimer struct {
	mu       sync.Mutex
	held     map[string]string
	Released int
}

var _ repository.CheckoutClaimer = (*MockClaimer)(nil)

func NewMockClaimer() *MockClaimer { return &MockClaimer{held: map[string]string{}} }

func claimKey(userID string, ruleID int64) string {
	return userID + "/" + strconv.FormatInt(ruleID, 10)
}

func (m *MockClaimer) Claim(ctx context.Context, userID string, ruleID int64, window time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := claimKey(userID, ruleID)
	if _, ok := m.held[k]; ok {
		return "", domain.ErrCheckoutInProgress
	}
	tok := uuid.NewString()
	m.held[k] = tok
	return tok, nil
}

func (m *MockClaimer) Release(ctx context.Context, userID string, ruleID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := claimKey(userID, ruleID)
	if m.held[k] == token {
		delete(m.held, k)
		m.Released++
	}
	return nil
}

func (m *MockClaimer) Held(userID string, ruleID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[claimKey(userID, ruleID)]
	return ok
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(ctx, repository.NoTX)
}
