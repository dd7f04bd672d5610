package order

import (
	"context"
	"errors"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
)

// SetStatusUseCase 订单状态流转用例(管理端)
// 教学要点:
// 1. 流转规则全部在领域实体的TransitionTo里(单向推进,允许跳跃,终态不可变)
// 2. 广播的事件类型由目标状态决定(EventForStatus映射)
type SetStatusUseCase struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	dispatcher   *notification.Dispatcher
}

// NewSetStatusUseCase 创建状态流转用例
func NewSetStatusUseCase(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	dispatcher *notification.Dispatcher,
) *SetStatusUseCase {
	return &SetStatusUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
	}
}

// Execute 将订单流转到目标状态
// 失败情形:
//   - 订单不存在 → ErrOrderNotFound
//   - 订单处于终态 → ErrOrderTerminal
//   - 逆向流转/非法状态值 → ErrInvalidStatusTransition
func (uc *SetStatusUseCase) Execute(ctx context.Context, orderID uint, target order.Status) (*OrderResponse, error) {
	for attempt := 0; ; attempt++ {
		o, err := uc.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		from := o.Status
		if err := o.TransitionTo(target); err != nil {
			return nil, err
		}

		// 条件写:并发流转只有一方命中,落选方重读后重新校验
		err = uc.orderRepo.Update(ctx, o, from)
		if errors.Is(err, order.ErrStatusConflict) && attempt < maxStatusRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		broadcast(ctx, uc.dispatcher, uc.customerRepo, o)

		return toOrderResponse(o), nil
	}
}
