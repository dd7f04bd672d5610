package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/pkg/metrics"
	"github.com/duc135790/smartstore/pkg/mq"
)

// OrderEvent 发往运营看板的订单事件消息体
// 设计说明:事件携带订单快照(而非仅ID),消费端无需回查数据库
type OrderEvent struct {
	EventType  string    `json:"event_type"`  // ORDER_CREATED等
	OrderID    uint      `json:"order_id"`    // 订单ID
	OrderNo    string    `json:"order_no"`    // 订单号
	CustomerID uint      `json:"customer_id"` // 客户ID
	TotalPrice int64     `json:"total_price"` // 总金额(分)
	Status     string    `json:"status"`      // 状态描述
	ItemCount  int       `json:"item_count"`  // 商品件数
	OccurredAt time.Time `json:"occurred_at"` // 事件时间
}

// DashboardChannel 运营看板渠道
// 教学要点:
// 1. 不直接推送给看板,而是发布事件到RabbitMQ(解耦生产者和消费者)
// 2. 路由键order.{event},看板消费者用order.#订阅全部订单事件
// 3. 发布失败返回error,由调度器记录为该渠道的投递失败
type DashboardChannel struct {
	publisher *mq.Publisher
	exchange  string
}

// NewDashboardChannel 创建看板渠道
func NewDashboardChannel(publisher *mq.Publisher, exchange string) *DashboardChannel {
	return &DashboardChannel{publisher: publisher, exchange: exchange}
}

// Kind 渠道类型
func (c *DashboardChannel) Kind() notification.ChannelKind {
	return notification.ChannelDashboard
}

// Deliver 发布订单事件到消息队列
func (c *DashboardChannel) Deliver(ctx context.Context, snapshot notification.OrderSnapshot, kind notification.EventKind) error {
	routingKey := routingKeyFor(kind)

	event := OrderEvent{
		EventType:  string(kind),
		OrderID:    snapshot.OrderID,
		OrderNo:    snapshot.OrderNo,
		CustomerID: snapshot.CustomerID,
		TotalPrice: snapshot.TotalPrice,
		Status:     snapshot.Status,
		ItemCount:  snapshot.ItemCount,
		OccurredAt: time.Now(),
	}

	if err := c.publisher.Publish(routingKey, event); err != nil {
		metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{
			"channel": string(c.Kind()),
			"result":  "failed",
		})
		return fmt.Errorf("发布订单事件失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    c.exchange,
		"routing_key": routingKey,
	})
	metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{
		"channel": string(c.Kind()),
		"result":  "success",
	})
	return nil
}

// routingKeyFor 事件类型 -> 路由键
// ORDER_CREATED -> order.created
func routingKeyFor(kind notification.EventKind) string {
	suffix := strings.ToLower(strings.TrimPrefix(string(kind), "ORDER_"))
	return "order." + suffix
}
