package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/pkg/metrics"
)

// PushChannel APP推送通知渠道
// 当前为模拟实现:按客户ID定位设备并打日志
type PushChannel struct{}

// NewPushChannel 创建推送渠道
func NewPushChannel() *PushChannel {
	return &PushChannel{}
}

// Kind 渠道类型
func (c *PushChannel) Kind() notification.ChannelKind {
	return notification.ChannelPush
}

// Deliver 投递推送通知
func (c *PushChannel) Deliver(ctx context.Context, snapshot notification.OrderSnapshot, kind notification.EventKind) error {
	subject, bodyFormat := notification.TemplateFor(kind)

	// 模拟推送网关调用
	log.Printf("🔔 [PUSH -> customer:%d] %s: %s", snapshot.CustomerID, subject, fmt.Sprintf(bodyFormat, snapshot.OrderNo))

	metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{
		"channel": string(c.Kind()),
		"result":  "success",
	})
	return nil
}
