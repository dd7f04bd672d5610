package order

import (
	"context"
	"sync"

	"github.com/duc135790/smartstore/internal/domain/cart"
	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/inventory"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
	"github.com/duc135790/smartstore/internal/domain/product"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

// fakeOrderRepo 内存订单仓储
// 加锁并实现条件更新语义,和MySQL实现的并发行为保持一致
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*order.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*order.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			clone := *o
			return &clone, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order, from order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	// 条件写: WHERE id = ? AND status = ?
	if stored.Status != from {
		return order.ErrStatusConflict
	}
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			clone := *o
			result = append(result, &clone)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) List(ctx context.Context, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*order.Order
	for _, o := range r.orders {
		clone := *o
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

// fakeProductRepo 内存商品仓储(只实现查询)
type fakeProductRepo struct {
	products map[uint]*product.Product
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	m := make(map[uint]*product.Product)
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error            { return nil }

func (r *fakeProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

// fakeCartRepo 内存购物车仓储
type fakeCartRepo struct {
	items   map[uint][]*cart.Item // customerID -> items
	cleared []uint                // Clear调用记录
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uint][]*cart.Item)}
}

func (r *fakeCartRepo) Upsert(ctx context.Context, item *cart.Item) error {
	r.items[item.CustomerID] = append(r.items[item.CustomerID], item)
	return nil
}

func (r *fakeCartRepo) ListByCustomer(ctx context.Context, customerID uint) ([]*cart.Item, error) {
	return r.items[customerID], nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, customerID, productID uint, quantity int) error {
	return nil
}

func (r *fakeCartRepo) Remove(ctx context.Context, customerID, productID uint) error { return nil }

func (r *fakeCartRepo) Clear(ctx context.Context, customerID uint) error {
	r.cleared = append(r.cleared, customerID)
	delete(r.items, customerID)
	return nil
}

// fakeCustomerRepo 内存客户仓储
type fakeCustomerRepo struct {
	customers map[uint]*customer.Customer
}

func newFakeCustomerRepo(customers ...*customer.Customer) *fakeCustomerRepo {
	m := make(map[uint]*customer.Customer)
	for _, c := range customers {
		m[c.ID] = c
	}
	return &fakeCustomerRepo{customers: m}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error { return nil }

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, apperrors.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(ctx context.Context, id uint) error              { return nil }

// ledgerCall 台账调用记录
type ledgerCall struct {
	op        string // reserve / release
	productID uint
	quantity  int
}

// fakeLedger 内存库存台账
// 模拟原子条件扣减:不足时返回*inventory.StockShortage
type fakeLedger struct {
	mu     sync.Mutex
	stocks map[uint]int
	names  map[uint]string
	calls  []ledgerCall

	reserveErr map[uint]error // 指定商品预留时返回的错误(模拟网络/DB故障)
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		stocks:     make(map[uint]int),
		names:      make(map[uint]string),
		reserveErr: make(map[uint]error),
	}
}

func (l *fakeLedger) setStock(productID uint, name string, stock int) {
	l.stocks[productID] = stock
	l.names[productID] = name
}

func (l *fakeLedger) Reserve(ctx context.Context, productID uint, quantity int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, ledgerCall{op: "reserve", productID: productID, quantity: quantity})

	if err, ok := l.reserveErr[productID]; ok {
		return 0, err
	}

	stock, ok := l.stocks[productID]
	if !ok {
		return 0, product.ErrProductNotFound
	}
	if stock < quantity {
		return stock, &inventory.StockShortage{
			ProductID:   productID,
			ProductName: l.names[productID],
			Available:   stock,
		}
	}

	l.stocks[productID] = stock - quantity
	return l.stocks[productID], nil
}

func (l *fakeLedger) Release(ctx context.Context, productID uint, quantity int, reason inventory.ReleaseReason) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, ledgerCall{op: "release", productID: productID, quantity: quantity})

	stock, ok := l.stocks[productID]
	if !ok {
		return 0, product.ErrProductNotFound
	}
	l.stocks[productID] = stock + quantity
	return l.stocks[productID], nil
}

func (l *fakeLedger) Lookup(ctx context.Context, productID uint) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stock, ok := l.stocks[productID]
	if !ok {
		return 0, product.ErrProductNotFound
	}
	return stock, nil
}

func (l *fakeLedger) releaseCount(productID uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, c := range l.calls {
		if c.op == "release" && c.productID == productID {
			count++
		}
	}
	return count
}

// fakeTxManager 直接执行fn的假事务管理器
type fakeTxManager struct {
	err error // 非nil时模拟事务失败
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

// recordingChannel 记录收到事件的通知渠道
type recordingChannel struct {
	mu     sync.Mutex
	kind   notification.ChannelKind
	events []notification.EventKind
	err    error
}

func (c *recordingChannel) Kind() notification.ChannelKind { return c.kind }

func (c *recordingChannel) Deliver(ctx context.Context, snapshot notification.OrderSnapshot, kind notification.EventKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, kind)
	return c.err
}

func (c *recordingChannel) received() []notification.EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.EventKind(nil), c.events...)
}
