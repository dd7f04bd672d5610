// Package notification 实现订单事件的通知广播
//
// 职责:把"订单状态变了"这件事与"如何告知每个渠道"解耦。
// 调度器维护一组互相独立的通知渠道(邮件/短信/推送/大屏),
// 广播时并发调用所有渠道,单个渠道失败不影响其他渠道,
// 也永远不会作为错误传播给触发广播的业务操作。
package notification

import (
	"github.com/duc135790/smartstore/internal/domain/order"
)

// EventKind 订单事件类型(固定词表)
type EventKind string

const (
	EventOrderCreated   EventKind = "ORDER_CREATED"
	EventOrderConfirmed EventKind = "ORDER_CONFIRMED"
	EventOrderShipping  EventKind = "ORDER_SHIPPING"
	EventOrderDelivered EventKind = "ORDER_DELIVERED"
	EventOrderCancelled EventKind = "ORDER_CANCELLED"
)

// EventForStatus 订单状态到事件类型的固定映射
func EventForStatus(status order.Status) EventKind {
	switch status {
	case order.StatusProcessing:
		return EventOrderCreated
	case order.StatusConfirmed:
		return EventOrderConfirmed
	case order.StatusShipping:
		return EventOrderShipping
	case order.StatusDelivered:
		return EventOrderDelivered
	case order.StatusCancelled:
		return EventOrderCancelled
	default:
		return EventOrderCreated
	}
}

// template 事件对应的通知文案
type template struct {
	Subject string
	Body    string
}

// templates 事件类型→文案的固定映射
// 未知事件类型回退到通用文案,而不是报错
var templates = map[EventKind]template{
	EventOrderCreated:   {Subject: "订单已创建", Body: "您的订单%s已创建, 我们正在处理中"},
	EventOrderConfirmed: {Subject: "订单已确认", Body: "您的订单%s已确认, 即将安排发货"},
	EventOrderShipping:  {Subject: "订单配送中", Body: "您的订单%s正在配送途中"},
	EventOrderDelivered: {Subject: "订单已送达", Body: "您的订单%s已送达, 感谢您的购买"},
	EventOrderCancelled: {Subject: "订单已取消", Body: "您的订单%s已取消, 占用的库存已释放"},
}

// genericTemplate 通用兜底文案
var genericTemplate = template{Subject: "订单状态更新", Body: "您的订单%s状态已更新"}

// TemplateFor 查找事件文案,未知事件回退到通用文案
func TemplateFor(kind EventKind) (subject, body string) {
	t, ok := templates[kind]
	if !ok {
		t = genericTemplate
	}
	return t.Subject, t.Body
}
