package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/duc135790/smartstore/internal/domain/cart"
)

// CartRepository 购物车仓储的MySQL实现
// 教学要点:
// 1. Upsert使用ON DUPLICATE KEY UPDATE合并数量(依赖(customer_id,product_id)唯一索引)
// 2. Clear支持在事务中调用(下单成功后同事务清空)
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &CartRepository{db: db}
}

// Upsert 加入购物车
// 设计说明:
// 1. 同一客户重复加购同一商品时,数量累加而不是新增一行
// 2. 单条原子SQL,避免"先查再插"的并发竞态
// 3. 价格快照以最新一次加购为准
func (r *CartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	model := &CartItemModel{
		CustomerID: item.CustomerID,
		ProductID:  item.ProductID,
		Name:       item.Name,
		Image:      item.Image,
		Price:      item.Price,
		Quantity:   item.Quantity,
	}

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", item.Quantity),
			"name":     item.Name,
			"image":    item.Image,
			"price":    item.Price,
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("加入购物车失败: %w", err)
	}

	item.ID = model.ID
	return nil
}

// ListByCustomer 查询客户的购物车
func (r *CartRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*cart.Item, error) {
	var models []CartItemModel

	err := r.getDB(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("查询购物车失败: %w", err)
	}

	items := make([]*cart.Item, 0, len(models))
	for i := range models {
		items = append(items, toCartItemEntity(&models[i]))
	}

	return items, nil
}

// UpdateQuantity 修改购物车商品数量
func (r *CartRepository) UpdateQuantity(ctx context.Context, customerID, productID uint, quantity int) error {
	result := r.getDB(ctx).Model(&CartItemModel{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Update("quantity", quantity)

	if result.Error != nil {
		return fmt.Errorf("修改购物车数量失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}

	return nil
}

// Remove 移除购物车商品
func (r *CartRepository) Remove(ctx context.Context, customerID, productID uint) error {
	result := r.getDB(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&CartItemModel{})

	if result.Error != nil {
		return fmt.Errorf("移除购物车商品失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}

	return nil
}

// Clear 清空客户购物车
// 教学要点:下单成功后在落库订单的同一事务中调用,保证原子性
func (r *CartRepository) Clear(ctx context.Context, customerID uint) error {
	err := r.getDB(ctx).
		Where("customer_id = ?", customerID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return fmt.Errorf("清空购物车失败: %w", err)
	}

	return nil
}

// getDB 获取DB连接(支持事务)
func (r *CartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toCartItemEntity GORM模型 -> 领域实体
func toCartItemEntity(m *CartItemModel) *cart.Item {
	return &cart.Item{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		Name:       m.Name,
		Image:      m.Image,
		Price:      m.Price,
		Quantity:   m.Quantity,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
