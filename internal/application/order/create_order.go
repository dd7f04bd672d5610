package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/duc135790/smartstore/internal/domain/cart"
	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/inventory"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
	"github.com/duc135790/smartstore/internal/domain/product"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
	"github.com/duc135790/smartstore/pkg/metrics"
	"github.com/duc135790/smartstore/pkg/saga"
	"github.com/duc135790/smartstore/pkg/tracing"
)

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:参数校验、saga补偿、事务处理、并发库存控制、通知广播
type CreateOrderUseCase struct {
	orderRepo    order.Repository
	productRepo  product.Repository
	cartRepo     cart.Repository
	customerRepo customer.Repository
	ledger       inventory.Ledger
	txManager    TxManager
	dispatcher   *notification.Dispatcher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	customerRepo customer.Repository,
	ledger inventory.Ledger,
	txManager TxManager,
	dispatcher *notification.Dispatcher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		txManager:    txManager,
		dispatcher:   dispatcher,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	CustomerID    uint                  // 买家客户ID(从JWT中提取)
	Shipping      order.ShippingAddress // 收货地址
	PaymentMethod string                // 支付方式(为空时默认COD)
	TotalPrice    int64                 // 客户端计算的总金额(服务端重新核对)
}

// Execute 执行下单用例
//
// 校验顺序(先失败先返回):
//  1. 收货地址三要素齐全
//  2. 总金额为正数
//  3. 购物车非空
//  4. 每个购物车商品都存在
//
// 核心流程(saga编排,见pkg/saga):
//
//	步骤1..N: 逐商品预留库存(原子条件UPDATE),补偿动作为归还库存
//	步骤N+1: 单事务落库订单+清空购物车(最后一步,无补偿)
//
// 任何一步失败,已预留的库存按逆序归还,保证"不留下部分扣减"。
// 教学要点:为什么预留不放进大事务?
// 逐商品预留是独立的原子UPDATE,放进长事务会延长行锁持有时间,
// 高并发下单时热门商品行会成为瓶颈。saga用补偿换并发度。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "application/order", "CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("customer.id", int64(req.CustomerID)))

	metrics.OrdersInProgress.Inc()
	defer metrics.OrdersInProgress.Dec()

	start := time.Now()
	resp, err := uc.execute(ctx, req)
	metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.OrdersFailedTotal.Inc()
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	return resp, nil
}

func (uc *CreateOrderUseCase) execute(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	// ========================================
	// 步骤1:参数校验(顺序固定)
	// ========================================
	if !req.Shipping.Complete() {
		return nil, apperrors.ErrMissingShipping
	}

	if req.TotalPrice <= 0 {
		return nil, apperrors.ErrInvalidTotal
	}

	// 读取客户购物车(订单明细的唯一来源)
	cartItems, err := uc.cartRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// ========================================
	// 步骤2:解析商品(全部存在才继续)
	// ========================================
	for _, item := range cartItems {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		if _, err := uc.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
	}

	// 服务端核对总金额(防止前端改价提交)
	var computed int64
	for _, item := range cartItems {
		computed += item.Subtotal()
	}
	if computed != req.TotalPrice {
		return nil, apperrors.ErrInvalidTotal
	}

	// ========================================
	// 步骤3:构建订单快照
	// ========================================
	// 教学要点:明细复制购物车的价格快照,下单后商家改价不影响本订单
	orderItems := make([]order.Item, 0, len(cartItems))
	for _, item := range cartItems {
		orderItems = append(orderItems, order.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	newOrder := order.NewOrder(order.GenerateOrderNo(), req.CustomerID, orderItems, req.Shipping, req.PaymentMethod, computed)

	// ========================================
	// 步骤4:saga编排(预留库存 → 落库+清空购物车)
	// ========================================
	sg := saga.NewSaga(10 * time.Second)

	for _, item := range cartItems {
		sg.AddStep(
			fmt.Sprintf("预留库存:%s", item.Name),
			func(stepCtx context.Context) error {
				_, err := uc.ledger.Reserve(stepCtx, item.ProductID, item.Quantity)
				if err != nil {
					metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": reserveResult(err)})
					return err
				}
				metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": "success"})
				return nil
			},
			func(compCtx context.Context) error {
				_, err := uc.ledger.Release(compCtx, item.ProductID, item.Quantity, inventory.ReleaseCompensation)
				if err == nil {
					metrics.IncCounterVec(metrics.StockReleasesTotal, map[string]string{"reason": string(inventory.ReleaseCompensation)})
				}
				return err
			},
		)
	}

	// 最后一步:订单落库+清空购物车,单事务保证原子性
	// 此步骤失败时,前面所有预留都会被补偿归还
	sg.AddStep(
		"落库订单并清空购物车",
		func(stepCtx context.Context) error {
			return uc.txManager.Transaction(stepCtx, func(txCtx context.Context) error {
				if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
					return err
				}
				return uc.cartRepo.Clear(txCtx, req.CustomerID)
			})
		},
		nil, // 事务自身保证原子性,无需补偿
	)

	sagaStart := time.Now()
	err = sg.Execute(ctx)
	metrics.SagaExecutionDuration.Observe(time.Since(sagaStart).Seconds())

	if err != nil {
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "failure"})
		metrics.SagaCompensationsTotal.Inc()
		return nil, err
	}
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "success"})

	// ========================================
	// 步骤5:广播订单创建通知(不影响下单结果)
	// ========================================
	broadcast(ctx, uc.dispatcher, uc.customerRepo, newOrder)

	return toOrderResponse(newOrder), nil
}

// reserveResult 预留失败分类(用于指标标签)
func reserveResult(err error) string {
	var shortage *inventory.StockShortage
	if errors.As(err, &shortage) {
		return "shortage"
	}
	return "error"
}
