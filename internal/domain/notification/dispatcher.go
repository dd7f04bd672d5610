package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher 通知调度器(观察者模式的fan-out)
//
// 设计说明:
// 1. 显式构造+依赖注入,不做进程级单例(测试时可换渠道集合)
// 2. Broadcast并发调用所有渠道,等全部渠道结束后才返回
// 3. 单个渠道失败/panic只产生一条失败记录,不影响其他渠道
// 4. Broadcast没有error返回值:通知失败永远不是业务操作的失败
type Dispatcher struct {
	channels []Channel
	records  RecordRepository // 可为nil(不落审计记录)
}

// NewDispatcher 创建通知调度器
//
// 示例:
//
//	dispatcher := notification.NewDispatcher(recordRepo,
//	    notify.NewEmailChannel(cfg),
//	    notify.NewSMSChannel(),
//	    notify.NewPushChannel(),
//	    notify.NewDashboardChannel(publisher),
//	)
func NewDispatcher(records RecordRepository, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		records:  records,
	}
}

// Broadcast 向所有渠道广播订单事件
//
// 并发契约:
// 1. 每个渠道在独立的goroutine中投递,渠道之间无顺序保证
// 2. 等待所有渠道结束(成功或失败)后才返回
// 3. 渠道panic被recover,折算为一条失败记录
//
// 返回每个渠道的投递记录(审计用),调用方无需检查
func (d *Dispatcher) Broadcast(ctx context.Context, snapshot OrderSnapshot, kind EventKind) []*Record {
	subject, bodyFormat := TemplateFor(kind)
	message := subject + ": " + fmt.Sprintf(bodyFormat, snapshot.OrderNo)

	results := make([]*Record, len(d.channels))

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(idx int, ch Channel) {
			defer wg.Done()

			record := &Record{
				ID:        uuid.NewString(),
				OrderID:   snapshot.OrderID,
				Channel:   ch.Kind(),
				Event:     kind,
				Status:    DeliverySent,
				Recipient: recipientFor(ch.Kind(), snapshot),
				Message:   message,
				CreatedAt: time.Now(),
			}

			// 渠道panic不能拖垮其他渠道和调用方
			defer func() {
				if r := recover(); r != nil {
					record.Status = DeliveryFailed
					record.Error = fmt.Sprintf("panic: %v", r)
					log.Printf("通知渠道[%s]panic: %v", ch.Kind(), r)
				}
				results[idx] = record
			}()

			if err := ch.Deliver(ctx, snapshot, kind); err != nil {
				record.Status = DeliveryFailed
				record.Error = err.Error()
				log.Printf("通知渠道[%s]投递失败: OrderNo=%s, Event=%s, err=%v",
					ch.Kind(), snapshot.OrderNo, kind, err)
			}
		}(i, ch)
	}
	wg.Wait()

	// 审计记录尽力追加,失败只记日志
	if d.records != nil {
		if err := d.records.Append(ctx, results); err != nil {
			log.Printf("通知记录落库失败: OrderNo=%s, err=%v", snapshot.OrderNo, err)
		}
	}

	return results
}

// recipientFor 根据渠道类型选择收件地址
func recipientFor(kind ChannelKind, snapshot OrderSnapshot) string {
	switch kind {
	case ChannelEmail:
		return snapshot.CustomerEmail
	case ChannelSMS, ChannelPush:
		return snapshot.CustomerPhone
	case ChannelDashboard:
		return "ops-dashboard"
	default:
		return ""
	}
}
