package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 教学要点:订单和明细必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 条件更新订单状态类字段(乐观并发控制)
	// 教学要点:
	// 1. from是聚合被读出时的状态,实现方必须以 WHERE id = ? AND status = ? 落库
	// 2. 条件未命中(被并发请求抢先修改)返回ErrStatusConflict
	// 3. 并发双取消/取消+送达竞态下,只有赢得条件写的一方可以继续归还库存,
	//    保证库存至多归还一次、终态不被覆盖
	Update(ctx context.Context, order *Order, from Status) error

	// ListByCustomerID 查询客户的订单列表
	// 教学要点:支持分页,避免一次性查询大量数据
	ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*Order, int64, error)

	// List 查询全部订单(管理员)
	List(ctx context.Context, page, pageSize int) ([]*Order, int64, error)
}
