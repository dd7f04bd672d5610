package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/duc135790/smartstore/internal/domain/inventory"
	"github.com/duc135790/smartstore/internal/domain/product"
)

// InventoryLedger 库存台账的MySQL实现
// 教学要点:
// 1. 预留/归还全部走条件原子UPDATE,不做"先读后写"
// 2. WHERE count_in_stock >= ? 保证永不超卖(并发安全由数据库行锁保证)
// 3. RowsAffected==0时需要二次查询,区分"商品不存在"和"库存不足"
type InventoryLedger struct {
	db *gorm.DB
}

// NewInventoryLedger 创建库存台账
func NewInventoryLedger(db *gorm.DB) inventory.Ledger {
	return &InventoryLedger{db: db}
}

// Reserve 预留库存
// 设计说明:
// 1. 单条SQL: UPDATE products SET count_in_stock = count_in_stock - ? WHERE id = ? AND count_in_stock >= ?
// 2. 两个并发请求争抢最后一件时,行锁串行化执行,后到者WHERE不满足,RowsAffected=0
// 3. 库存不足返回*inventory.StockShortage,携带商品名和剩余数量供上层展示
func (l *InventoryLedger) Reserve(ctx context.Context, productID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("预留数量必须大于0: %d", quantity)
	}

	db := l.getDB(ctx)

	result := db.Model(&ProductModel{}).
		Where("id = ?", productID).
		Where("count_in_stock >= ?", quantity).
		Update("count_in_stock", gorm.Expr("count_in_stock - ?", quantity))

	if result.Error != nil {
		return 0, fmt.Errorf("预留库存失败: %w", result.Error)
	}

	// RowsAffected==0有两种可能:商品不存在 或 库存不足
	// 需要再次查询区分
	if result.RowsAffected == 0 {
		var model ProductModel
		err := db.Where("id = ?", productID).First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, product.ErrProductNotFound
			}
			return 0, fmt.Errorf("查询商品失败: %w", err)
		}
		// 商品存在但库存不足
		return model.CountInStock, &inventory.StockShortage{
			ProductID:   productID,
			ProductName: model.Name,
			Available:   model.CountInStock,
		}
	}

	// 预留成功,查询剩余库存返回给调用方
	var model ProductModel
	if err := db.Select("count_in_stock").Where("id = ?", productID).First(&model).Error; err != nil {
		return 0, fmt.Errorf("查询剩余库存失败: %w", err)
	}

	return model.CountInStock, nil
}

// Release 归还库存
// 教学要点:
// 1. 原子增量UPDATE,与Reserve对称
// 2. 非幂等:调用方每次成功预留只能归还一次(saga补偿/取消订单各归还一次)
// 3. reason仅用于日志和指标,不影响存储语义
func (l *InventoryLedger) Release(ctx context.Context, productID uint, quantity int, reason inventory.ReleaseReason) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("归还数量必须大于0: %d", quantity)
	}

	db := l.getDB(ctx)

	result := db.Model(&ProductModel{}).
		Where("id = ?", productID).
		Update("count_in_stock", gorm.Expr("count_in_stock + ?", quantity))

	if result.Error != nil {
		return 0, fmt.Errorf("归还库存失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return 0, product.ErrProductNotFound
	}

	var model ProductModel
	if err := db.Select("count_in_stock").Where("id = ?", productID).First(&model).Error; err != nil {
		return 0, fmt.Errorf("查询剩余库存失败: %w", err)
	}

	return model.CountInStock, nil
}

// Lookup 查询当前可售库存
func (l *InventoryLedger) Lookup(ctx context.Context, productID uint) (int, error) {
	db := l.getDB(ctx)

	var model ProductModel
	err := db.Select("count_in_stock").Where("id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, product.ErrProductNotFound
		}
		return 0, fmt.Errorf("查询库存失败: %w", err)
	}

	return model.CountInStock, nil
}

// getDB 获取DB连接(支持事务)
// 如果context中有事务DB,则使用事务DB(保证同一事务内的操作)
func (l *InventoryLedger) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return l.db.WithContext(ctx)
}
