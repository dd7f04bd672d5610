package order

import (
	"context"
	"errors"
	"log"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/inventory"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
	"github.com/duc135790/smartstore/pkg/metrics"
)

// CancelOrderUseCase 取消订单用例
// 教学要点:
// 1. 权限:管理员可取消任意订单,客户只能取消自己的订单
// 2. 状态机:已送达/已取消的订单拒绝取消(防止重复归还库存)
// 3. 库存归还:先落库"已取消"状态,再逐商品归还(失败只记日志)
type CancelOrderUseCase struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	ledger       inventory.Ledger
	dispatcher   *notification.Dispatcher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	ledger inventory.Ledger,
	dispatcher *notification.Dispatcher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		dispatcher:   dispatcher,
	}
}

// maxStatusRetries 条件写落选后的重读次数上限
const maxStatusRetries = 3

// Execute 执行取消订单
//
// 流程:
//  1. 查询订单(不存在 → ErrOrderNotFound)
//  2. 权限校验(非管理员且非订单所有者 → ErrForbidden)
//  3. 领域校验:已送达 → ErrOrderDelivered;已取消 → ErrOrderCancelled
//  4. 条件写"已取消"状态(WHERE status = 读出时状态,状态先行且并发安全)
//  5. 逐商品归还库存(尽力而为:单个失败记日志继续,不回滚取消)
//  6. 广播取消通知
//
// 教学要点:为什么先改状态再归还库存?
// 状态落库成功后,重复的取消请求会在步骤3被ErrOrderCancelled挡住,
// 保证每个订单的库存只归还一次。反过来做则并发双取消会双倍归还。
//
// 教学要点:为什么落库必须是条件写?
// 两个并发取消请求会同时在步骤1读到"处理中",都通过步骤3的内存校验。
// 若无条件落库,双方都会进入步骤5,库存被双倍归还;取消和送达并发时
// 还会互相覆盖终态。条件写保证只有一方命中,落选方重读最新状态后,
// 由步骤3给出确定答案(已取消/已送达)
func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID uint, actor Actor) (*OrderResponse, error) {
	var o *order.Order

	for attempt := 0; ; attempt++ {
		// 1. 查询订单
		var err error
		o, err = uc.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		// 2. 权限校验
		if !actor.IsAdmin && !o.IsOwnedBy(actor.ID) {
			return nil, apperrors.ErrForbidden
		}

		// 3. 领域状态机校验
		from := o.Status
		if err := o.Cancel(); err != nil {
			return nil, err
		}

		// 4. 条件写落库
		err = uc.orderRepo.Update(ctx, o, from)
		if err == nil {
			break
		}
		if errors.Is(err, order.ErrStatusConflict) && attempt < maxStatusRetries {
			// 状态被并发修改,重读后由步骤3重新判定
			continue
		}
		return nil, err
	}

	metrics.OrdersCancelledTotal.Inc()

	// 5. 归还库存(尽力而为)
	// 教学要点:归还失败不回滚取消——客户视角订单已取消,
	// 库存差异由对账任务兜底,这里只保证可观测(日志+指标)
	// 状态已落库,客户端断开不能中止归还,切换到独立context
	// (saga补偿路径同理)
	releaseCtx := context.Background()
	for _, item := range o.Items {
		_, err := uc.ledger.Release(releaseCtx, item.ProductID, item.Quantity, inventory.ReleaseCancellation)
		if err != nil {
			log.Printf("取消订单%s: 归还商品%d库存失败: %v", o.OrderNo, item.ProductID, err)
			continue
		}
		metrics.IncCounterVec(metrics.StockReleasesTotal, map[string]string{"reason": string(inventory.ReleaseCancellation)})
	}

	// 6. 广播取消通知
	broadcast(releaseCtx, uc.dispatcher, uc.customerRepo, o)

	return toOrderResponse(o), nil
}
