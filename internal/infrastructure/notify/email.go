// Package notify 实现订单状态通知的各个渠道
//
// 每个渠道实现domain/notification.Channel接口,由调度器并发广播。
// 外部网关(SMTP)用熔断器保护,避免网关故障拖垮下单主流程。
package notify

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/infrastructure/config"
	"github.com/duc135790/smartstore/pkg/circuitbreaker"
	"github.com/duc135790/smartstore/pkg/metrics"
)

// EmailChannel 邮件通知渠道
// 教学要点:
// 1. 使用gomail发送SMTP邮件
// 2. SMTP是外部依赖,用熔断器包裹:网关持续故障时快速失败
// 3. 投递结果打指标(notifications_sent_total{channel="email"})
type EmailChannel struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

// NewEmailChannel 创建邮件渠道
func NewEmailChannel(cfg config.SMTPConfig) *EmailChannel {
	breaker := circuitbreaker.NewCircuitBreaker("smtp-gateway", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &EmailChannel{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		breaker: breaker,
	}
}

// Kind 渠道类型
func (c *EmailChannel) Kind() notification.ChannelKind {
	return notification.ChannelEmail
}

// Deliver 投递邮件通知
func (c *EmailChannel) Deliver(ctx context.Context, snapshot notification.OrderSnapshot, kind notification.EventKind) error {
	subject, bodyFormat := notification.TemplateFor(kind)

	msg := gomail.NewMessage()
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", snapshot.CustomerEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf(bodyFormat, snapshot.OrderNo))

	err := c.breaker.Execute(func() error {
		return c.dialer.DialAndSend(msg)
	})

	if err != nil {
		metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{"channel": string(c.Kind()), "result": "failed"})
		if err == circuitbreaker.ErrOpenState {
			return fmt.Errorf("邮件网关熔断中: %w", err)
		}
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	metrics.IncCounterVec(metrics.NotificationsSentTotal, map[string]string{"channel": string(c.Kind()), "result": "success"})
	return nil
}
