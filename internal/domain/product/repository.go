package product

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, product *Product) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// Update 更新商品信息(不含库存,库存走库存台账)
	Update(ctx context.Context, product *Product) error

	// Delete 删除商品(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询商品列表
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索名称、品牌、分类)
	Category string // 分类过滤
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}
