package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-inventory/inventory/internal/shared"
)

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, nil, nil, ServiceConfig{}, nil)
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 3)
	repo.customers[7] = true
	svc := newTestService(repo)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 7, QuantitySold: 4})
	require.NoError(t, err)
	require.NotZero(t, sale.ID)
	require.True(t, decimal.RequireFromString("20.00").Equal(sale.TotalAmount), "total %s", sale.TotalAmount)
	require.Equal(t, int64(6), repo.stock(1))

	_, err = svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 7, QuantitySold: 10})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, shared.ErrBusinessRule)
	require.Equal(t, "Insufficient stock", err.Error())
	require.Equal(t, int64(6), repo.stock(1))
	require.Equal(t, 1, repo.saleCount())
}

func TestRecordSaleSellsEntireStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "1.00", 0)
	repo.customers[1] = true
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 5})
	require.NoError(t, err)
	require.Zero(t, repo.stock(1))
}

func TestRecordSaleRejectsZeroQuantity(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 3)
	repo.customers[7] = true
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 7, QuantitySold: 0})
	require.ErrorIs(t, err, ErrQuantitySoldNotPositive)
	require.Equal(t, "QuantitySold must be greater than 0", err.Error())
	require.Equal(t, shared.ClassClientError, shared.Classify(err))
	require.Equal(t, int64(10), repo.stock(1))
	require.Zero(t, repo.saleCount())
}

func TestRecordSaleProductNotFound(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[7] = true
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 99, CustomerID: 7, QuantitySold: 1})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, shared.ClassNotFound, shared.Classify(err))
}

func TestRecordSaleUnknownCustomerLeavesStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 3)
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 42, QuantitySold: 2})
	require.ErrorIs(t, err, ErrCustomerNotFound)
	require.Equal(t, int64(10), repo.stock(1))
	require.Zero(t, repo.saleCount())
}

func TestRecordSaleRollsBackOnStorageFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 3)
	repo.customers[7] = true
	repo.adjustErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 7, QuantitySold: 2})
	require.Error(t, err)
	require.Equal(t, shared.ClassServerError, shared.Classify(err))
	require.Equal(t, "Internal server error", shared.UserSafeMessage(err))
	require.Equal(t, int64(10), repo.stock(1))
	require.Zero(t, repo.saleCount())
}

func TestRecordSaleTotalIsExact(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 100, "0.10", 3)
	repo.customers[1] = true
	svc := newTestService(repo)

	sale, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 3})
	require.NoError(t, err)
	require.Equal(t, "0.30", sale.TotalAmount.StringFixed(2))
	require.True(t, decimal.RequireFromString("0.3").Equal(sale.TotalAmount))
}

func TestRecordSaleTotalOutOfRange(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 1000, "99999999.99", 3)
	repo.customers[1] = true
	svc := newTestService(repo)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 2})
	require.ErrorIs(t, err, ErrTotalOutOfRange)
	require.Equal(t, int64(1000), repo.stock(1))
}

func TestRecordPurchaseIncrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 0, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)

	purchase, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: 1, SupplierID: 3, QuantityPurchased: 50, UnitCost: decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	require.NotZero(t, purchase.ID)
	require.Equal(t, "125.00", purchase.TotalCost.StringFixed(2))
	require.Equal(t, int64(50), repo.stock(1))
	require.Equal(t, 1, repo.purchaseCount())
}

func TestRecordPurchaseRoundsUnitCost(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 0, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)

	purchase, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: 1, SupplierID: 3, QuantityPurchased: 3, UnitCost: decimal.RequireFromString("1.005"),
	})
	require.NoError(t, err)
	require.Equal(t, "1.01", purchase.UnitCost.StringFixed(2))
	require.Equal(t, "3.03", purchase.TotalCost.StringFixed(2))
}

func TestRecordPurchaseTotalUsesStoredUnitCost(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 0, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)

	purchase, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: 1, SupplierID: 3, QuantityPurchased: 2, UnitCost: decimal.RequireFromString("2.555"),
	})
	require.NoError(t, err)
	require.Equal(t, "2.56", purchase.UnitCost.StringFixed(2))
	require.Equal(t, "5.12", purchase.TotalCost.StringFixed(2))
	require.True(t, purchase.TotalCost.Equal(purchase.UnitCost.Mul(decimal.NewFromInt(purchase.QuantityPurchased))))
}

func TestRecordPurchaseRejectsInvalidInput(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)
	ctx := context.Background()

	cases := []PurchaseInput{
		{ProductID: 1, SupplierID: 3, QuantityPurchased: 0, UnitCost: decimal.NewFromInt(1)},
		{ProductID: 1, SupplierID: 3, QuantityPurchased: -2, UnitCost: decimal.NewFromInt(1)},
		{ProductID: 1, SupplierID: 3, QuantityPurchased: 2, UnitCost: decimal.NewFromInt(-1)},
	}
	for _, input := range cases {
		_, err := svc.RecordPurchase(ctx, input)
		require.ErrorIs(t, err, ErrInvalidPurchase)
		require.Equal(t, "QuantityPurchased must be > 0 and UnitCost >= 0", err.Error())
	}
	require.Equal(t, int64(5), repo.stock(1))
	require.Zero(t, repo.purchaseCount())
}

func TestRecordPurchaseZeroCostAllowed(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)

	purchase, err := svc.RecordPurchase(context.Background(), PurchaseInput{ProductID: 1, SupplierID: 3, QuantityPurchased: 2, UnitCost: decimal.Zero})
	require.NoError(t, err)
	require.True(t, purchase.TotalCost.IsZero())
	require.Equal(t, int64(7), repo.stock(1))
}

func TestRecordPurchaseMissingReferences(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "4.00", 10)
	repo.suppliers[3] = true
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, PurchaseInput{ProductID: 404, SupplierID: 3, QuantityPurchased: 1, UnitCost: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.RecordPurchase(ctx, PurchaseInput{ProductID: 1, SupplierID: 404, QuantityPurchased: 1, UnitCost: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrSupplierNotFound)
	require.Equal(t, int64(5), repo.stock(1))
	require.Zero(t, repo.purchaseCount())
}

func TestConcurrentSalesDoNotOversell(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 0)
	repo.customers[1] = true
	repo.lockPause = 5 * time.Millisecond
	svc := newTestService(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 6})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientStock)
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, int64(4), repo.stock(1))
	require.Equal(t, 1, repo.saleCount())
}

func TestConcurrentSalesDrainStockExactly(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "1.00", 0)
	repo.addProduct(2, 10, "1.00", 0)
	repo.customers[1] = true
	svc := newTestService(repo)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded = map[int64]int{}
	)
	for i := 0; i < 30; i++ {
		productID := int64(i%2 + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(ctx, SaleInput{ProductID: productID, CustomerID: 1, QuantitySold: 1})
			if err == nil {
				mu.Lock()
				succeeded[productID]++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}()
	}
	wg.Wait()

	require.Equal(t, 10, succeeded[1])
	require.Equal(t, 10, succeeded[2])
	require.Zero(t, repo.stock(1))
	require.Zero(t, repo.stock(2))
}

func TestIdempotencyKeyRejectsReplay(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 0)
	repo.customers[1] = true
	idem := newMemoryIdempotency()
	svc := NewService(repo, nil, idem, ServiceConfig{}, nil)
	ctx := context.Background()
	key := "6f1c1c55-2d7e-4e4b-9f55-3c0b4f0f2a11"

	_, err := svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 2, IdempotencyKey: key})
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 2, IdempotencyKey: key})
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Equal(t, int64(8), repo.stock(1))
	require.Equal(t, 1, repo.saleCount())

	// The same key on the purchase ledger is independent.
	repo.suppliers[1] = true
	_, err = svc.RecordPurchase(ctx, PurchaseInput{ProductID: 1, SupplierID: 1, QuantityPurchased: 1, UnitCost: decimal.NewFromInt(1), IdempotencyKey: key})
	require.NoError(t, err)
}

func TestIdempotencyKeyReleasedOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 1, "5.00", 0)
	repo.customers[1] = true
	idem := newMemoryIdempotency()
	svc := NewService(repo, nil, idem, ServiceConfig{}, nil)
	ctx := context.Background()
	key := "0d9b8c1e-7c55-4a4e-8a55-d3c0b4f0f2a1"

	_, err := svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 3, IdempotencyKey: key})
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 1, IdempotencyKey: key})
	require.NoError(t, err)
}

func TestCommittedSalePublishesEventAndAudit(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 8)
	repo.customers[1] = true
	audit := &recordingAudit{}
	events := &recordingEvents{}
	metrics := &recordingMetrics{}
	svc := NewService(repo, audit, nil, ServiceConfig{Metrics: metrics}, EventHandlers{events})
	ctx := shared.ContextWithActor(context.Background(), "admin")

	sale, err := svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 3})
	require.NoError(t, err)
	_, err = svc.RecordSale(ctx, SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 30})
	require.Error(t, err)

	require.Len(t, events.sales, 1)
	evt := events.sales[0]
	require.Equal(t, sale.ID, evt.SaleID)
	require.Equal(t, int64(7), evt.StockAfter)
	require.True(t, evt.BelowReorder())

	require.Len(t, audit.logs, 1)
	require.Equal(t, "admin", audit.logs[0].Actor)
	require.Equal(t, "sale.recorded", audit.logs[0].Action)
	require.Equal(t, "15.00", audit.logs[0].Meta["total_amount"])

	require.Equal(t, []string{"sale:success", "sale:client-error"}, metrics.outcomes)
}

func TestCommittedPurchasePublishesEvent(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 2, "5.00", 8)
	repo.suppliers[1] = true
	events := &recordingEvents{}
	svc := NewService(repo, nil, nil, ServiceConfig{}, events)

	purchase, err := svc.RecordPurchase(context.Background(), PurchaseInput{ProductID: 1, SupplierID: 1, QuantityPurchased: 10, UnitCost: decimal.NewFromInt(3)})
	require.NoError(t, err)
	require.Len(t, events.purchases, 1)
	require.Equal(t, purchase.ID, events.purchases[0].PurchaseID)
	require.Equal(t, int64(12), events.purchases[0].StockAfter)
}

type failingEvents struct{}

func (failingEvents) HandleSaleRecorded(context.Context, SaleRecordedEvent) error {
	return errors.New("queue unavailable")
}

func (failingEvents) HandlePurchaseRecorded(context.Context, PurchaseRecordedEvent) error {
	return errors.New("queue unavailable")
}

func TestEventFailureDoesNotUndoCommit(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 10, "5.00", 8)
	repo.customers[1] = true
	svc := NewService(repo, nil, nil, ServiceConfig{}, EventHandlers{failingEvents{}})

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, CustomerID: 1, QuantitySold: 3})
	require.NoError(t, err)
	require.Equal(t, int64(7), repo.stock(1))
}
