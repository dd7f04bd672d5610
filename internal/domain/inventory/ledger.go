// Package inventory 定义库存台账
//
// 库存是整个系统唯一的共享可变热点:两个并发订单同时购买同一件商品时,
// 合计数量超过可售库存的话只允许其中一个成功。
// 因此预留操作必须是"检查+扣减"合一的原子条件更新,
// 而不是先读后写两步(两步之间会被并发请求插队导致超卖)。
package inventory

import (
	"context"
	"fmt"
)

// StockShortage 库存不足
// 携带商品名称和当前可售数量,便于提示用户"xx仅剩n件"
type StockShortage struct {
	ProductID   uint
	ProductName string
	Available   int
}

func (e *StockShortage) Error() string {
	return fmt.Sprintf("商品[%s]库存不足, 仅剩%d件", e.ProductName, e.Available)
}

// ReleaseReason 归还库存的原因(用于指标和日志)
type ReleaseReason string

const (
	// ReleaseCompensation 下单失败后的补偿归还
	ReleaseCompensation ReleaseReason = "compensation"
	// ReleaseCancellation 订单取消归还
	ReleaseCancellation ReleaseReason = "cancellation"
)

// Ledger 库存台账接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层用数据库条件更新实现
// 2. Reserve必须是单条原子条件更新(WHERE count_in_stock >= quantity)
// 3. Release不保证幂等,调用方负责每份预留只归还一次
type Ledger interface {
	// Reserve 预留库存(原子条件扣减)
	// 库存不足时返回*StockShortage(可用errors.As识别)
	// 返回扣减后的剩余库存
	Reserve(ctx context.Context, productID uint, quantity int) (int, error)

	// Release 归还库存(原子增加)
	// 商品不存在时返回ErrProductNotFound
	// reason区分补偿归还和取消归还,仅用于可观测性
	Release(ctx context.Context, productID uint, quantity int, reason ReleaseReason) (int, error)

	// Lookup 查询当前可售库存(只读)
	Lookup(ctx context.Context, productID uint) (int, error)
}
