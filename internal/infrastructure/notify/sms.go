package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/pkg/metrics"
)

// SMSChannel 短信通知渠道
// 教学要点:
// 1. 当前为模拟网关(打日志),接入真实短信服务商时只需替换send方法
// 2. 未配置手机号时静默跳过(不算失败,也不打failed指标)
type SMSChannel struct{}

// NewSMSChannel 创建短信渠道
func NewSMSChannel() *SMSChannel {
	return &SMSChannel{}
}

// Kind 渠道类型
func (c *SMSChannel) Kind() notification.ChannelKind {
	return notification.ChannelSMS
}

// Deliver 投递短信通知
func (c *SMSChannel) Deliver(ctx context.Context, snapshot notification.OrderSnapshot, kind notification.EventKind) error {
	if snapshot.CustomerPhone == "" {
		log.Printf("短信渠道: 订单%s的客户未留手机号, 跳过", snapshot.OrderNo)
		return nil
	}

	subject, bodyFormat := notification.TemplateFor(kind)

	// 模拟网关调用
	log.Printf("📱 [SMS -> %s] %s: %s", snapshot.CustomerPhone, subject, fmt.Sprintf(bodyFormat, snapshot.OrderNo))

	metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{
		"channel": string(c.Kind()),
		"result":  "success",
	})
	return nil
}
