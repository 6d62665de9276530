package monitor_test

import (
	"context"
	"errors"
	"testing"

	"price-tracker/internal/domain/entity"
	"price-tracker/internal/usecase/alert"
	monUC "price-tracker/internal/usecase/monitor"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*────────────────────  インメモリスタブ  ────────────────────*/

type stubProductRepo struct {
	data map[int64]*entity.Product
	err  error
}

func (s *stubProductRepo) Get(_ context.Context, id int64) (*entity.Product, error) {
	return s.data[id], s.err
}
func (s *stubProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range s.data {
		out = append(out, p)
	}
	return out, s.err
}
func (s *stubProductRepo) Create(_ context.Context, p *entity.Product) error { return s.err }
func (s *stubProductRepo) Update(_ context.Context, p *entity.Product) error { return s.err }
func (s *stubProductRepo) Delete(_ context.Context, id int64) error          { return s.err }

type stubObservationRepo struct {
	rows   []*entity.PriceObservation
	nextID int64
	err    error
}

func (s *stubObservationRepo) Create(_ context.Context, obs *entity.PriceObservation) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	obs.ID = s.nextID
	stored := *obs
	s.rows = append(s.rows, &stored)
	return nil
}
func (s *stubObservationRepo) ListByProduct(_ context.Context, productID int64, limit int) ([]*entity.PriceObservation, error) {
	var out []*entity.PriceObservation
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].ProductID == productID {
			out = append(out, s.rows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, s.err
}
func (s *stubObservationRepo) CountByProduct(_ context.Context, productID int64) (int64, error) {
	var n int64
	for _, r := range s.rows {
		if r.ProductID == productID {
			n++
		}
	}
	return n, s.err
}

type stubFetcher struct {
	body string
	err  error
}

func (s *stubFetcher) FetchPage(context.Context, string) (string, error) {
	return s.body, s.err
}

/*────────────────────  テストケース  ────────────────────*/

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newService(products *stubProductRepo, obs *stubObservationRepo, fetcher *stubFetcher) *monUC.Service {
	return &monUC.Service{
		ProductRepo:     products,
		ObservationRepo: obs,
		Fetcher:         fetcher,
		Alerts:          alert.NewDispatcher(),
	}
}

func sampleProduct(target string) *entity.Product {
	return &entity.Product{
		ID:          1,
		Name:        "Samsung Galaxy S23",
		URL:         "https://example.com/samsung",
		TargetPrice: decimal.RequireFromString(target),
	}
}

func TestMonitorProductSuccess(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{body: `<div class="price">R$ 2.399,90</div>`}

	svc := newService(products, observations, fetcher)
	obs, err := svc.MonitorProduct(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, int64(1), obs.ProductID)
	assert.True(t, mustDec(t, "2399.90").Equal(obs.Price))
	assert.False(t, obs.ObservedAt.IsZero())
	assert.Len(t, observations.rows, 1)
}

// Two successful runs append two independent rows.
func TestMonitorProductAppendOnly(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{body: `<div class="price">R$ 2.399,90</div>`}

	svc := newService(products, observations, fetcher)

	first, err := svc.MonitorProduct(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.MonitorProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.ProductID, second.ProductID)
	assert.Len(t, observations.rows, 2)
}

// A network error leaves the history untouched and surfaces as ErrPriceNotFound.
func TestMonitorProductFetchFailurePurity(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{err: errors.New("connection refused")}

	svc := newService(products, observations, fetcher)
	obs, err := svc.MonitorProduct(context.Background(), 1)

	assert.Nil(t, obs)
	assert.ErrorIs(t, err, monUC.ErrPriceNotFound)
	assert.Empty(t, observations.rows, "fetch failure must not write a history row")
}

func TestMonitorProductExtractionFailureWritesNothing(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{body: `<p>Produto indisponível</p>`}

	svc := newService(products, observations, fetcher)
	obs, err := svc.MonitorProduct(context.Background(), 1)

	assert.Nil(t, obs)
	assert.ErrorIs(t, err, monUC.ErrPriceNotFound)
	assert.Empty(t, observations.rows)
}

func TestMonitorProductPersistenceFailure(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{err: errors.New("connection reset")}
	fetcher := &stubFetcher{body: `<div class="price">R$ 2.399,90</div>`}

	svc := newService(products, observations, fetcher)
	obs, err := svc.MonitorProduct(context.Background(), 1)

	assert.Nil(t, obs)
	require.Error(t, err)
	assert.NotErrorIs(t, err, monUC.ErrPriceNotFound)
	assert.Empty(t, observations.rows)
}

func TestMonitorProductUnknownID(t *testing.T) {
	svc := newService(&stubProductRepo{data: map[int64]*entity.Product{}}, &stubObservationRepo{}, &stubFetcher{})

	obs, err := svc.MonitorProduct(context.Background(), 99)

	assert.Nil(t, obs)
	assert.ErrorIs(t, err, monUC.ErrProductNotFound)
}

// The stored custom selector is used exclusively once it matches an element.
func TestMonitorProductUsesCustomSelector(t *testing.T) {
	product := sampleProduct("2500.00")
	product.CSSSelector = ".special-offer"
	products := &stubProductRepo{data: map[int64]*entity.Product{1: product}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{body: `
		<span class="special-offer">R$ 1.999,00</span>
		<div class="price">R$ 2.399,90</div>`}

	svc := newService(products, observations, fetcher)
	obs, err := svc.MonitorProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, mustDec(t, "1999.00").Equal(obs.Price))
}

func TestMonitorProductTriggersAlert(t *testing.T) {
	products := &stubProductRepo{data: map[int64]*entity.Product{1: sampleProduct("2500.00")}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{body: `<div class="price">R$ 2.500,00</div>`}

	sink := &captureSink{}
	svc := newService(products, observations, fetcher)
	svc.Alerts = alert.NewDispatcher(sink)

	_, err := svc.MonitorProduct(context.Background(), 1)
	require.NoError(t, err)

	// Exactly at the target: inclusive threshold fires.
	require.Len(t, sink.alerts, 1)
	assert.Equal(t, "Samsung Galaxy S23", sink.alerts[0].ProductName)
	require.NotNil(t, sink.alerts[0].ProductID)
	assert.Equal(t, int64(1), *sink.alerts[0].ProductID)
}

type captureSink struct {
	alerts []alert.Alert
}

func (c *captureSink) Name() string { return "capture" }
func (c *captureSink) Notify(_ context.Context, a alert.Alert) error {
	c.alerts = append(c.alerts, a)
	return nil
}

func TestMonitorAll(t *testing.T) {
	good := sampleProduct("2500.00")
	bad := &entity.Product{
		ID:          2,
		Name:        "iPhone 15 Pro",
		URL:         "https://example.com/iphone",
		TargetPrice: decimal.RequireFromString("2000.00"),
	}
	products := &stubProductRepo{data: map[int64]*entity.Product{1: good, 2: bad}}
	observations := &stubObservationRepo{}

	// The shared fetcher serves a page only the heuristics on product 1 can
	// price; product 2 uses a selector that matches nothing numeric.
	bad.CSSSelector = ".missing"
	fetcher := &stubFetcher{body: `<div class="price">R$ 2.399,90</div>`}

	svc := newService(products, observations, fetcher)
	stats, err := svc.MonitorAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 2, stats.Observed) // fallback prices both products
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 1, stats.Triggered)
}

func TestMonitorAllListFailure(t *testing.T) {
	products := &stubProductRepo{err: errors.New("db down")}
	svc := newService(products, &stubObservationRepo{}, &stubFetcher{})

	stats, err := svc.MonitorAll(context.Background())

	assert.Nil(t, stats)
	assert.Error(t, err)
}

func TestMonitorAllIsolatesFailures(t *testing.T) {
	p1 := sampleProduct("2500.00")
	p2 := &entity.Product{
		ID:          2,
		Name:        "MacBook Air M2",
		URL:         "https://example.com/macbook",
		TargetPrice: decimal.RequireFromString("8000.00"),
	}
	products := &stubProductRepo{data: map[int64]*entity.Product{1: p1, 2: p2}}
	observations := &stubObservationRepo{}
	fetcher := &stubFetcher{err: errors.New("timeout")}

	svc := newService(products, observations, fetcher)
	stats, err := svc.MonitorAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 0, stats.Observed)
	assert.Empty(t, observations.rows)
}
