package order

import (
	"context"
	"errors"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
)

// DeliverOrderUseCase 标记订单送达用例(管理端)
// 权限由HTTP中间件RequireAdmin保证,用例内只做状态机校验
type DeliverOrderUseCase struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	dispatcher   *notification.Dispatcher
}

// NewDeliverOrderUseCase 创建送达用例
func NewDeliverOrderUseCase(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	dispatcher *notification.Dispatcher,
) *DeliverOrderUseCase {
	return &DeliverOrderUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
	}
}

// Execute 标记订单已送达
// 领域规则:终态订单拒绝操作;送达同时记录DeliveredAt时间戳
// 落库是条件写:与并发的取消竞争时只有一方能命中,落选方重读后由状态机判定
func (uc *DeliverOrderUseCase) Execute(ctx context.Context, orderID uint) (*OrderResponse, error) {
	for attempt := 0; ; attempt++ {
		o, err := uc.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		from := o.Status
		if err := o.Deliver(); err != nil {
			return nil, err
		}

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
