// Package cart 定义购物车快照
//
// 购物车是下单前的临时选择:加入购物车时记录商品的名称/图片/价格快照,
// 下单时这些快照被"复制"进订单明细(而不是引用),随后购物车被清空。
// 商家后续改价不影响已生成的订单。
package cart

import (
	"context"
	"time"
)

// Item 购物车行项(价格快照)
// 设计说明:
// 1. Name/Image/Price是加入购物车时刻的快照,不随商品目录变化
// 2. Quantity必须为正数(由领域校验保证)
type Item struct {
	ID         uint
	CustomerID uint   // 所属客户ID
	ProductID  uint   // 商品ID
	Name       string // 商品名称快照
	Image      string // 商品图片快照
	Price      int64  // 单价快照(分)
	Quantity   int    // 数量
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Subtotal 行项小计(分)
func (i *Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Repository 购物车仓储接口
type Repository interface {
	// Upsert 添加或更新购物车行项(同一商品合并数量)
	Upsert(ctx context.Context, item *Item) error

	// ListByCustomer 查询客户的购物车
	ListByCustomer(ctx context.Context, customerID uint) ([]*Item, error)

	// UpdateQuantity 修改行项数量
	UpdateQuantity(ctx context.Context, customerID, productID uint, quantity int) error

	// Remove 删除单个行项
	Remove(ctx context.Context, customerID, productID uint) error

	// Clear 清空客户购物车
	// 下单成功时在订单落库的同一事务中调用(通过context传递事务)
	Clear(ctx context.Context, customerID uint) error
}
