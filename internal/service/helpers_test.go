package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type published struct {
	action string
	data   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(action string, data interface{}, _ string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{action: action, data: data})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.action)
	}
	return out
}

// memIdempotency keeps claimed keys in memory; 0 marks a pending claim.
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]uint
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: map[string]uint{}}
}

func (m *memIdempotency) Claim(_ context.Context, key string) (bool, uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.keys[key]; ok {
		return false, id, nil
	}
	m.keys[key] = 0
	return true, 0, nil
}

func (m *memIdempotency) Complete(_ context.Context, key string, saleID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = saleID
	return nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type fixture struct {
	db       *gorm.DB
	clients  repository.ClientRepository
	products repository.ProductRepository
	prices   repository.PriceRepository
	sales    repository.SaleRepository
	invoices repository.InvoiceRepository
	reports  repository.ReportRepository
	pub      *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		clients:  repository.NewClientRepo(db),
		products: repository.NewProductRepo(db),
		prices:   repository.NewPriceRepo(db),
		sales:    repository.NewSaleRepo(db),
		invoices: repository.NewInvoiceRepo(db),
		reports:  repository.NewReportRepo(db),
		pub:      &recordingPublisher{},
	}
}

func (f *fixture) saleService(now time.Time, store IdempotencyStore) *saleService {
	svc := NewSaleService(f.clients, f.products, f.prices, f.sales, f.db, f.pub, store).(*saleService)
	svc.now = func() time.Time { return now }
	return svc
}

func (f *fixture) invoiceService(now time.Time) *invoiceService {
	svc := NewInvoiceService(f.sales, f.invoices, f.db, f.pub, InvoiceOptions{}).(*invoiceService)
	svc.now = func() time.Time { return now }
	return svc
}

func (f *fixture) pricingService() PricingService {
	return NewPricingService(f.clients, f.products, f.prices, f.db, f.pub)
}

func (f *fixture) reportService() ReportService {
	return NewReportService(f.reports, f.sales, f.clients, f.products)
}

// mustSell records a sale at the given instant and fails the test on error.
func (f *fixture) mustSell(t *testing.T, at time.Time, clientID *int, items ...SaleItemRequest) uint {
	t.Helper()
	sale, _, err := f.saleService(at, nil).CreateSale(context.Background(), &CreateSaleRequest{ClientID: clientID, Items: items}, "")
	require.NoError(t, err)
	return sale.ID
}

func intPtr(v int) *int { return &v }

func item(productID uint, qty int) SaleItemRequest {
	return SaleItemRequest{ProductID: int(productID), Quantity: qty}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func requireKind(t *testing.T, err error, kind ErrorKind) *AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, IsKind(err, kind), "want %s, got: %v", kind, err)
	return AsAppError(err, "")
}

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}
