// Package saga 实现通用的补偿式事务框架
//
// 核心思想：
// 1. 将一次业务操作拆分为多个有副作用的步骤
// 2. 每个步骤有对应的补偿操作（正向扣库存 ↔ 反向还库存）
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 在本项目中的用途：下单流程的"全有或全无"库存预留
// - 逐条预留购物车商品的库存（正向：reserve，补偿：release）
// - 最后一步在数据库事务中落库订单并清空购物车
// - 任何一步失败，已预留的库存全部归还，不留下"半扣"状态
//
// 教学要点：
// - 补偿操作的幂等性设计（网络故障可能导致重试）
// - 超时控制（补偿使用新Context，避免补偿本身被超时打断）
// - 补偿失败只记录不中断（尽最大努力归还）
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如预留库存、创建订单）
// 2. Compensate是补偿操作（如释放库存）
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个补偿式事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga事务
//
// 参数：
//
//	timeout: 整体超时时间，防止长时间阻塞
//
// 示例：
//
//	s := saga.NewSaga(30 * time.Second)
//	s.AddStep("预留库存", reserveStock, releaseStock)
//	s.AddStep("创建订单", persistOrder, nil)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
//
// 设计原则：
// 1. 步骤顺序很重要（按添加顺序执行，按逆序补偿）
// 2. Action和Compensate都可以为nil（如最后一步通常无需补偿）
// 3. 补偿操作必须完全独立，只依赖自己Action的结果
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，触发补偿流程（逆序执行已完成步骤的Compensate）
// 3. 原始错误原样返回给调用方（便于上层识别业务错误类型）
//
// 超时处理：
// - 整体超时时间由NewSaga的timeout参数指定
// - 超时时会立即触发补偿流程
//
// 注意事项：
// 1. 补偿操作可能失败（记录日志，需要人工介入或重试机制）
// 2. Saga保证"最终一致性"，而非"强一致性"
func (s *Saga) Execute(ctx context.Context) error {
	// 创建带超时的Context
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// 按顺序执行每个步骤的Action
	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿
			s.compensate(context.Background()) // 使用新Context，避免补偿也超时
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		// 执行正向操作
		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				// 执行失败，触发补偿
				s.compensate(context.Background())
				// 返回原始错误（不额外包装），调用方需要用errors.As
				// 识别业务错误类型（如库存不足），步骤信息只进日志
				log.Printf("saga步骤[%d:%s]执行失败: %v", i, step.Name, err)
				return err
			}
		}

		// 记录已执行的步骤（用于补偿）
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 执行补偿流程
//
// 补偿原则：
// 1. 按逆序执行已完成步骤的Compensate
// 2. 即使某个Compensate失败，也继续执行后续补偿（尽最大努力）
//
// 为什么逆序？
//   - 依赖关系：后执行的步骤可能依赖先执行的步骤
//   - 示例：先"预留库存"，后"创建订单"
//     补偿时应先撤销订单，再归还库存
func (s *Saga) compensate(ctx context.Context) {
	// 逆序执行补偿操作
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				// 补偿失败：记录日志，继续执行后续补偿
				// 生产环境应该写入补偿失败表并告警
				log.Printf("saga补偿失败[步骤:%s]: %v", step.Name, err)
			}
		}
	}

	// 清空已执行列表
	s.executed = nil
}
