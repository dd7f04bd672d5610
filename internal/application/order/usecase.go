// Package order 实现订单生命周期的应用层用例
//
// 用例编排领域对象完成业务流程:
// 下单(校验→saga预留库存→事务落库+清空购物车→广播通知)、
// 取消(权限→状态机→归还库存→广播)、送达、状态流转、查询。
package order

import (
	"context"
	"fmt"
	"log"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/domain/order"
)

// TxManager 事务管理接口
// 教学要点:应用层依赖接口而非mysql.TxManager具体类型,
// 测试时可以用直接执行fn的fake替代真实事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor 操作者身份(从JWT中提取)
// 权限规则:IsAdmin可以操作任意订单,普通客户只能操作自己的订单
type Actor struct {
	ID      uint
	IsAdmin bool
}

// OrderResponse 订单响应DTO
type OrderResponse struct {
	OrderID       uint                `json:"order_id"`
	OrderNo       string              `json:"order_no"`
	CustomerID    uint                `json:"customer_id"`
	Items         []OrderItemResponse `json:"items"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Phone         string              `json:"phone"`
	PaymentMethod string              `json:"payment_method"`
	TotalPrice    int64               `json:"total_price"`
	TotalYuan     string              `json:"total_yuan"`
	Status        int                 `json:"status"`
	StatusText    string              `json:"status_text"`
	IsPaid        bool                `json:"is_paid"`
	PaidAt        string              `json:"paid_at,omitempty"`
	IsDelivered   bool                `json:"is_delivered"`
	DeliveredAt   string              `json:"delivered_at,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

// OrderItemResponse 订单明细响应DTO
type OrderItemResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
}

// toOrderResponse 领域实体 -> 响应DTO
func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
			PriceYuan: formatPrice(item.Price),
		})
	}

	resp := &OrderResponse{
		OrderID:       o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		Items:         items,
		Address:       o.Shipping.Address,
		City:          o.Shipping.City,
		Phone:         o.Shipping.Phone,
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice,
		TotalYuan:     formatPrice(o.TotalPrice),
		Status:        int(o.Status),
		StatusText:    o.Status.String(),
		IsPaid:        o.IsPaid,
		IsDelivered:   o.IsDelivered,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.PaidAt != nil {
		resp.PaidAt = o.PaidAt.Format("2006-01-02 15:04:05")
	}
	if o.DeliveredAt != nil {
		resp.DeliveredAt = o.DeliveredAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// broadcast 构建订单快照并广播状态变更通知
// 教学要点:
// 1. 客户信息查询失败不阻断广播(快照缺邮箱时邮件渠道会失败,但有审计记录)
// 2. 调度器保证各渠道互相隔离,这里不处理投递结果
func broadcast(ctx context.Context, dispatcher *notification.Dispatcher, customerRepo customer.Repository, o *order.Order) {
	if dispatcher == nil {
		return
	}

	snapshot := notification.OrderSnapshot{
		OrderID:       o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		CustomerPhone: o.Shipping.Phone, // 短信/推送使用收货人电话
		TotalPrice:    o.TotalPrice,
		Status:        o.Status.String(),
		ItemCount:     len(o.Items),
	}

	if c, err := customerRepo.FindByID(ctx, o.CustomerID); err == nil {
		snapshot.CustomerName = c.Name
		snapshot.CustomerEmail = c.Email
	} else {
		log.Printf("广播通知: 查询客户%d失败: %v", o.CustomerID, err)
	}

	dispatcher.Broadcast(ctx, snapshot, notification.EventForStatus(o.Status))
}
