// 运营看板消费端
//
// 独立进程，订阅订单事件交换机上 order.# 的全部事件，
// 把每条事件渲染成一行运营摘要日志。API进程只负责发布事件，
// 看板侧消费失败不会影响下单链路（消息Nack后重新入队）。
//
// 启动方式：
//
//	go run ./cmd/dashboard
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duc135790/smartstore/internal/infrastructure/config"
	"github.com/duc135790/smartstore/internal/infrastructure/notify"
	"github.com/duc135790/smartstore/pkg/metrics"
	"github.com/duc135790/smartstore/pkg/mq"
)

const dashboardQueue = "smartstore.dashboard"

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	metrics.InitMetrics()

	// 2. 创建消费者（topic交换机，订阅所有订单事件）
	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		dashboardQueue,
		[]string{"order.#"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	fmt.Printf("✓ 运营看板已启动 (exchange: %s, queue: %s)\n", cfg.MQ.Exchange, dashboardQueue)
	fmt.Printf("按Ctrl+C停止服务\n\n")

	// 3. 监听退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. 消费循环
	if err := consumer.Consume(ctx, handleOrderEvent); err != nil {
		log.Fatalf("消费订单事件失败: %v", err)
	}

	fmt.Fprintln(os.Stdout, "运营看板已退出")
}

// handleOrderEvent 渲染一条订单事件
// 返回错误时消息会重新入队，所以只有解析失败才返回错误（脏数据打日志后吞掉，避免死循环重试）
func handleOrderEvent(body []byte) error {
	start := time.Now()

	var event notify.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// 脏数据重新入队只会无限重试，记录后丢弃
		log.Printf("⚠️  丢弃无法解析的事件: %v, body=%s", err, string(body))
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
			"queue":  dashboardQueue,
			"result": "invalid",
		})
		return nil
	}

	log.Printf("📊 [%s] 订单%s 客户#%d 金额%.2f元 共%d件 状态=%s",
		event.EventType,
		event.OrderNo,
		event.CustomerID,
		float64(event.TotalPrice)/100,
		event.ItemCount,
		event.Status,
	)

	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
		"queue":  dashboardQueue,
		"result": "success",
	})
	metrics.MessageProcessingDuration.Observe(time.Since(start).Seconds())

	return nil
}
