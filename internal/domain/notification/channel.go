package notification

import (
	"context"
	"time"
)

// OrderSnapshot 广播时传给渠道的订单快照(只读)
// 设计说明:不直接传聚合指针,渠道拿到的是值拷贝,
// 防止某个渠道在并发回调里改动订单状态
type OrderSnapshot struct {
	OrderID       uint
	OrderNo       string
	CustomerID    uint
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TotalPrice    int64
	Status        string
	ItemCount     int
}

// ChannelKind 渠道类型
type ChannelKind string

const (
	ChannelEmail     ChannelKind = "email"
	ChannelSMS       ChannelKind = "sms"
	ChannelPush      ChannelKind = "push"
	ChannelDashboard ChannelKind = "dashboard"
)

// Channel 通知渠道接口(观察者)
// 每个渠道独立实现投递逻辑,互相不感知
type Channel interface {
	// Kind 渠道类型(用于审计记录和指标标签)
	Kind() ChannelKind

	// Deliver 投递一条通知
	// 返回error表示本渠道投递失败,调度器只记录,不传播
	Deliver(ctx context.Context, snapshot OrderSnapshot, kind EventKind) error
}

// DeliveryStatus 投递结果
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Record 通知投递记录(审计用,只追加)
type Record struct {
	ID        string // UUID
	OrderID   uint
	Channel   ChannelKind
	Event     EventKind
	Status    DeliveryStatus
	Recipient string
	Message   string
	Error     string // 投递失败时的错误信息
	CreatedAt time.Time
}

// RecordRepository 通知记录仓储接口
type RecordRepository interface {
	// Append 追加投递记录(审计,失败不阻断业务)
	Append(ctx context.Context, records []*Record) error

	// ListByOrderID 查询某订单的投递记录
	ListByOrderID(ctx context.Context, orderID uint) ([]*Record, error)
}
