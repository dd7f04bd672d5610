package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/inventory"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

// lifecycleEnv 订单生命周期用例测试环境(取消/送达/状态流转/查询)
type lifecycleEnv struct {
	orderRepo    *fakeOrderRepo
	customerRepo *fakeCustomerRepo
	ledger       *fakeLedger
	email        *recordingChannel
	dispatcher   *notification.Dispatcher
	cancel       *CancelOrderUseCase
	deliver      *DeliverOrderUseCase
	setStatus    *SetStatusUseCase
	query        *QueryOrdersUseCase
}

func newLifecycleEnv(t *testing.T) *lifecycleEnv {
	t.Helper()

	orderRepo := newFakeOrderRepo()
	customerRepo := newFakeCustomerRepo(&customer.Customer{
		ID: 42, Email: "buyer@example.com", Name: "买家",
	})
	ledger := newFakeLedger()
	ledger.setStock(1, "机械键盘", 2)

	email := &recordingChannel{kind: notification.ChannelEmail}
	dispatcher := notification.NewDispatcher(nil, email)

	return &lifecycleEnv{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		email:        email,
		dispatcher:   dispatcher,
		cancel:       NewCancelOrderUseCase(orderRepo, customerRepo, ledger, dispatcher),
		deliver:      NewDeliverOrderUseCase(orderRepo, customerRepo, dispatcher),
		setStatus:    NewSetStatusUseCase(orderRepo, customerRepo, dispatcher),
		query:        NewQueryOrdersUseCase(orderRepo),
	}
}

// seedOrder 预置一个属于客户42的订单(已扣过3件库存)
func (env *lifecycleEnv) seedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o := order.NewOrder(order.GenerateOrderNo(), 42, []order.Item{
		{ProductID: 1, Name: "机械键盘", Quantity: 3, Price: 50000},
	}, order.ShippingAddress{Address: "科技路100号", City: "深圳", Phone: "13800138000"}, "", 150000)

	if status != order.StatusProcessing {
		require.NoError(t, o.TransitionTo(status))
	}
	require.NoError(t, env.orderRepo.Create(context.Background(), o))
	return o
}

// TestCancelOrder_ByOwner 订单所有者取消:状态变更+库存归还+广播
func TestCancelOrder_ByOwner(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	resp, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 42})

	require.NoError(t, err)
	assert.Equal(t, int(order.StatusCancelled), resp.Status)

	// 3件库存归还:2+3=5
	stock, _ := env.ledger.Lookup(context.Background(), 1)
	assert.Equal(t, 5, stock)

	assert.Equal(t, []notification.EventKind{notification.EventOrderCancelled}, env.email.received())
}

// TestCancelOrder_ByAdmin 管理员可以取消任意客户的订单
func TestCancelOrder_ByAdmin(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusShipping)

	resp, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 1, IsAdmin: true})

	require.NoError(t, err)
	assert.Equal(t, int(order.StatusCancelled), resp.Status)
}

// TestCancelOrder_Forbidden 其他客户不能取消别人的订单
func TestCancelOrder_Forbidden(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	_, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 99})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 库存未被归还
	stock, _ := env.ledger.Lookup(context.Background(), 1)
	assert.Equal(t, 2, stock)
}

// TestCancelOrder_AlreadyDelivered 已送达的订单拒绝取消
func TestCancelOrder_AlreadyDelivered(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusDelivered)

	_, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 42})

	assert.ErrorIs(t, err, order.ErrOrderDelivered)
}

// TestCancelOrder_DoubleCancel 重复取消被挡住,库存只归还一次
func TestCancelOrder_DoubleCancel(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	_, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 42})
	require.NoError(t, err)

	_, err = env.cancel.Execute(context.Background(), o.ID, Actor{ID: 42})
	assert.ErrorIs(t, err, order.ErrOrderCancelled)

	// 归还只发生一次:2+3=5
	stock, _ := env.ledger.Lookup(context.Background(), 1)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 1, env.ledger.releaseCount(1))
}

// TestCancelOrder_NotFound 订单不存在
func TestCancelOrder_NotFound(t *testing.T) {
	env := newLifecycleEnv(t)

	_, err := env.cancel.Execute(context.Background(), 999, Actor{ID: 42})

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

// TestDeliverOrder 标记送达:记录时间戳并广播ORDER_DELIVERED
func TestDeliverOrder(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusShipping)

	resp, err := env.deliver.Execute(context.Background(), o.ID)

	require.NoError(t, err)
	assert.Equal(t, int(order.StatusDelivered), resp.Status)
	assert.True(t, resp.IsDelivered)
	assert.NotEmpty(t, resp.DeliveredAt)

	assert.Equal(t, []notification.EventKind{notification.EventOrderDelivered}, env.email.received())
}

// TestSetStatus_Forward 正向流转与跳跃流转
func TestSetStatus_Forward(t *testing.T) {
	env := newLifecycleEnv(t)

	t.Run("逐级推进", func(t *testing.T) {
		o := env.seedOrder(t, order.StatusProcessing)

		resp, err := env.setStatus.Execute(context.Background(), o.ID, order.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, int(order.StatusConfirmed), resp.Status)
	})

	t.Run("跳跃推进", func(t *testing.T) {
		o := env.seedOrder(t, order.StatusProcessing)

		// Processing直接到Shipping是合法的单向跳跃
		resp, err := env.setStatus.Execute(context.Background(), o.ID, order.StatusShipping)
		require.NoError(t, err)
		assert.Equal(t, int(order.StatusShipping), resp.Status)
	})
}

// TestSetStatus_Backward 逆向流转被拒绝
func TestSetStatus_Backward(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusShipping)

	_, err := env.setStatus.Execute(context.Background(), o.ID, order.StatusConfirmed)

	assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
}

// TestSetStatus_Terminal 终态订单不可再流转
func TestSetStatus_Terminal(t *testing.T) {
	env := newLifecycleEnv(t)

	for _, status := range []order.Status{order.StatusDelivered, order.StatusCancelled} {
		o := env.seedOrder(t, order.StatusShipping)
		if status == order.StatusDelivered {
			_, err := env.deliver.Execute(context.Background(), o.ID)
			require.NoError(t, err)
		} else {
			_, err := env.cancel.Execute(context.Background(), o.ID, Actor{ID: 42, IsAdmin: true})
			require.NoError(t, err)
		}

		_, err := env.setStatus.Execute(context.Background(), o.ID, order.StatusShipping)
		assert.ErrorIs(t, err, order.ErrOrderTerminal, "终态%s应拒绝流转", status)
	}
}

// TestSetStatus_EventMapping 状态流转广播对应的事件类型
func TestSetStatus_EventMapping(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	_, err := env.setStatus.Execute(context.Background(), o.ID, order.StatusConfirmed)
	require.NoError(t, err)
	_, err = env.setStatus.Execute(context.Background(), o.ID, order.StatusShipping)
	require.NoError(t, err)

	assert.Equal(t, []notification.EventKind{
		notification.EventOrderConfirmed,
		notification.EventOrderShipping,
	}, env.email.received())
}

// TestGetOrderByID_Authz 详情查询的权限边界
func TestGetOrderByID_Authz(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	t.Run("所有者可查", func(t *testing.T) {
		resp, err := env.query.GetOrderByID(context.Background(), o.ID, Actor{ID: 42})
		require.NoError(t, err)
		assert.Equal(t, o.OrderNo, resp.OrderNo)
	})

	t.Run("管理员可查", func(t *testing.T) {
		_, err := env.query.GetOrderByID(context.Background(), o.ID, Actor{ID: 1, IsAdmin: true})
		assert.NoError(t, err)
	})

	t.Run("其他客户被拒", func(t *testing.T) {
		_, err := env.query.GetOrderByID(context.Background(), o.ID, Actor{ID: 99})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("订单不存在", func(t *testing.T) {
		_, err := env.query.GetOrderByID(context.Background(), 999, Actor{ID: 42})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

// TestGetMyOrders 只返回自己的订单
func TestGetMyOrders(t *testing.T) {
	env := newLifecycleEnv(t)
	env.seedOrder(t, order.StatusProcessing)
	env.seedOrder(t, order.StatusProcessing)

	// 其他客户的订单
	other := order.NewOrder(order.GenerateOrderNo(), 7, []order.Item{
		{ProductID: 1, Name: "机械键盘", Quantity: 1, Price: 50000},
	}, order.ShippingAddress{Address: "a", City: "b", Phone: "c"}, "", 50000)
	require.NoError(t, env.orderRepo.Create(context.Background(), other))

	resp, err := env.query.GetMyOrders(context.Background(), 42, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	for _, o := range resp.Orders {
		assert.Equal(t, uint(42), o.CustomerID)
	}
}

// TestGetAllOrders 管理端返回全部订单
func TestGetAllOrders(t *testing.T) {
	env := newLifecycleEnv(t)
	env.seedOrder(t, order.StatusProcessing)
	env.seedOrder(t, order.StatusConfirmed)

	resp, err := env.query.GetAllOrders(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
}

// gateOrderRepo 在FindByID处设闸:等到waiters个并发请求都读完旧状态才放行,
// 制造"双方都基于同一快照做内存校验"的竞态窗口。后续的重读不再拦截
type gateOrderRepo struct {
	*fakeOrderRepo

	mu      sync.Mutex
	waiters int
	arrived int
	gate    chan struct{}
}

func newGateOrderRepo(inner *fakeOrderRepo, waiters int) *gateOrderRepo {
	return &gateOrderRepo{fakeOrderRepo: inner, waiters: waiters, gate: make(chan struct{})}
}

func (r *gateOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	o, err := r.fakeOrderRepo.FindByID(ctx, id)

	r.mu.Lock()
	r.arrived++
	if r.arrived == r.waiters {
		close(r.gate)
	}
	r.mu.Unlock()
	<-r.gate

	return o, err
}

// TestCancelOrder_ConcurrentDuplicate 并发双取消:库存只归还一次
// 两个请求都读到"处理中"后同时落库,条件写保证只有一方命中;
// 落选方重读到"已取消",拿到ErrOrderCancelled
func TestCancelOrder_ConcurrentDuplicate(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	gated := newGateOrderRepo(env.orderRepo, 2)
	cancelUC := NewCancelOrderUseCase(gated, env.customerRepo, env.ledger, env.dispatcher)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cancelUC.Execute(context.Background(), o.ID, Actor{ID: 42})
		}(i)
	}
	wg.Wait()

	// 恰好一方成功,另一方被幂等闸门挡住
	if errs[0] == nil {
		require.ErrorIs(t, errs[1], order.ErrOrderCancelled)
	} else {
		require.NoError(t, errs[1])
		require.ErrorIs(t, errs[0], order.ErrOrderCancelled)
	}

	// 库存恰好归还一次:2+3=5
	stock, _ := env.ledger.Lookup(context.Background(), 1)
	assert.Equal(t, 5, stock, "库存不能被双倍归还")
	assert.Equal(t, 1, env.ledger.releaseCount(1), "归还只能发生一次")
	assert.Equal(t, []notification.EventKind{notification.EventOrderCancelled}, env.email.received(),
		"取消通知只广播一次")
}

// TestCancelOrder_ConcurrentWithDeliver 取消和送达并发:终态不被覆盖
// 双方都基于"配送中"快照落库,条件写保证只有一方命中;
// 送达胜出时不得归还库存,取消胜出时送达必须失败
func TestCancelOrder_ConcurrentWithDeliver(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusShipping)

	gated := newGateOrderRepo(env.orderRepo, 2)
	cancelUC := NewCancelOrderUseCase(gated, env.customerRepo, env.ledger, env.dispatcher)
	deliverUC := NewDeliverOrderUseCase(gated, env.customerRepo, env.dispatcher)

	var wg sync.WaitGroup
	var cancelErr, deliverErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = cancelUC.Execute(context.Background(), o.ID, Actor{ID: 42})
	}()
	go func() {
		defer wg.Done()
		_, deliverErr = deliverUC.Execute(context.Background(), o.ID)
	}()
	wg.Wait()

	final, err := env.orderRepo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	stock, _ := env.ledger.Lookup(context.Background(), 1)

	switch {
	case cancelErr == nil:
		// 取消胜出:送达必须失败,库存归还一次
		require.Error(t, deliverErr)
		assert.Equal(t, order.StatusCancelled, final.Status)
		assert.Equal(t, 5, stock)
		assert.Equal(t, 1, env.ledger.releaseCount(1))
	case deliverErr == nil:
		// 送达胜出:取消拿到已送达错误,库存一件不归还
		require.ErrorIs(t, cancelErr, order.ErrOrderDelivered)
		assert.Equal(t, order.StatusDelivered, final.Status)
		assert.Equal(t, 2, stock, "送达的订单不能归还库存")
		assert.Equal(t, 0, env.ledger.releaseCount(1))
	default:
		t.Fatalf("双方都失败: cancel=%v deliver=%v", cancelErr, deliverErr)
	}
}

// ctxAwareLedger 尊重context取消的台账,模拟真实DB驱动在请求中止时的行为
type ctxAwareLedger struct {
	*fakeLedger
}

func (l *ctxAwareLedger) Release(ctx context.Context, productID uint, quantity int, reason inventory.ReleaseReason) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.fakeLedger.Release(ctx, productID, quantity, reason)
}

// TestCancelOrder_ClientGoneStillReleases 状态落库后客户端断开,库存仍须归还
// 归还在独立context上执行,不随请求context一起被取消
func TestCancelOrder_ClientGoneStillReleases(t *testing.T) {
	env := newLifecycleEnv(t)
	o := env.seedOrder(t, order.StatusProcessing)

	ledger := &ctxAwareLedger{fakeLedger: env.ledger}
	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.customerRepo, ledger, env.dispatcher)

	// 模拟客户端已断开的请求context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := cancelUC.Execute(ctx, o.ID, Actor{ID: 42})

	// 读写走内存仓储不受context影响,取消本身成功
	require.NoError(t, err)
	assert.Equal(t, int(order.StatusCancelled), resp.Status)

	stock, _ := env.ledger.Lookup(context.Background(), 1)
	assert.Equal(t, 5, stock, "断开的请求不应丢失库存归还")
	assert.Equal(t, 1, env.ledger.releaseCount(1))
}
