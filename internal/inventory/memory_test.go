package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smart-inventory/inventory/internal/shared"
)

type memoryProduct struct {
	name    string
	qty     int64
	price   decimal.Decimal
	reorder int64
}

// memoryRepo mimics the Postgres repository: a per-product mutex stands in
// for the FOR UPDATE row lock and writes are staged until commit.
type memoryRepo struct {
	mu        sync.Mutex
	products  map[int64]memoryProduct
	customers map[int64]bool
	suppliers map[int64]bool
	sales     []Sale
	purchases []Purchase
	nextID    int64
	rowLocks  map[int64]*sync.Mutex
	adjustErr error
	lockPause time.Duration
}

type memoryTx struct {
	repo   *memoryRepo
	locked []*sync.Mutex
	view   map[int64]memoryProduct
	staged []func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:  make(map[int64]memoryProduct),
		customers: make(map[int64]bool),
		suppliers: make(map[int64]bool),
		rowLocks:  make(map[int64]*sync.Mutex),
	}
}

func (r *memoryRepo) addProduct(id int64, qty int64, price string, reorder int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id] = memoryProduct{name: "Product", qty: qty, price: decimal.RequireFromString(price), reorder: reorder}
}

func (r *memoryRepo) stock(id int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].qty
}

func (r *memoryRepo) saleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

func (r *memoryRepo) purchaseCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.purchases)
}

func (r *memoryRepo) rowLock(id int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.rowLocks[id] = lock
	}
	return lock
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r, view: make(map[int64]memoryProduct)}
	defer tx.release()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, apply := range tx.staged {
		apply()
	}
	return nil
}

func (r *memoryRepo) ListSales(ctx context.Context, filter ListFilter) ([]Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Sale, len(r.sales))
	copy(result, r.sales)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *memoryRepo) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Purchase, len(r.purchases))
	copy(result, r.purchases)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (tx *memoryTx) release() {
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.locked[i].Unlock()
	}
}

func (tx *memoryTx) LockProduct(ctx context.Context, productID int64) (ProductStock, error) {
	tx.repo.mu.Lock()
	_, ok := tx.repo.products[productID]
	tx.repo.mu.Unlock()
	if !ok {
		return ProductStock{}, ErrProductNotFound
	}

	lock := tx.repo.rowLock(productID)
	lock.Lock()
	tx.locked = append(tx.locked, lock)

	tx.repo.mu.Lock()
	p := tx.repo.products[productID]
	pause := tx.repo.lockPause
	tx.repo.mu.Unlock()
	tx.view[productID] = p

	// Widen the window between read and write so racing sales overlap.
	if pause > 0 {
		time.Sleep(pause)
	}
	return ProductStock{ProductID: productID, Name: p.name, Quantity: p.qty, Price: p.price, ReorderLevel: p.reorder}, nil
}

func (tx *memoryTx) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	if !tx.repo.customers[sale.CustomerID] {
		return Sale{}, ErrCustomerNotFound
	}
	tx.repo.nextID++
	sale.ID = tx.repo.nextID
	sale.SaleDate = time.Now()
	tx.staged = append(tx.staged, func() { tx.repo.sales = append(tx.repo.sales, sale) })
	return sale, nil
}

func (tx *memoryTx) InsertPurchase(ctx context.Context, p Purchase) (Purchase, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	if !tx.repo.suppliers[p.SupplierID] {
		return Purchase{}, ErrSupplierNotFound
	}
	tx.repo.nextID++
	p.ID = tx.repo.nextID
	p.PurchaseDate = time.Now()
	tx.staged = append(tx.staged, func() { tx.repo.purchases = append(tx.repo.purchases, p) })
	return p, nil
}

func (tx *memoryTx) AdjustQuantity(ctx context.Context, productID, delta int64) (int64, error) {
	tx.repo.mu.Lock()
	adjustErr := tx.repo.adjustErr
	tx.repo.mu.Unlock()
	if adjustErr != nil {
		return 0, adjustErr
	}
	p, ok := tx.view[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	p.qty += delta
	tx.view[productID] = p
	tx.staged = append(tx.staged, func() { tx.repo.products[productID] = p })
	return p.qty, nil
}

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]bool)}
}

func (m *memoryIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[module+"|"+key] {
		return shared.ErrIdempotencyConflict
	}
	m.keys[module+"|"+key] = true
	return nil
}

func (m *memoryIdempotency) Delete(ctx context.Context, key, module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, module+"|"+key)
	return nil
}

type recordingAudit struct {
	mu   sync.Mutex
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

type recordingEvents struct {
	mu        sync.Mutex
	sales     []SaleRecordedEvent
	purchases []PurchaseRecordedEvent
}

func (e *recordingEvents) HandleSaleRecorded(ctx context.Context, evt SaleRecordedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sales = append(e.sales, evt)
	return nil
}

func (e *recordingEvents) HandlePurchaseRecorded(ctx context.Context, evt PurchaseRecordedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.purchases = append(e.purchases, evt)
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) ObserveLedger(operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, operation+":"+outcome)
}
