package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/duc135790/smartstore/internal/domain/product"
)

// ProductRepository 商品仓储的MySQL实现
// 教学要点:
// 1. 实现domain层定义的Repository接口(依赖倒置)
// 2. 负责领域实体和GORM模型之间的转换
// 3. 库存扣减不走本仓储,统一走InventoryLedger的原子UPDATE
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &ProductRepository{db: db}
}

// Create 创建商品
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("创建商品失败: %w", err)
	}

	// 回填自增ID
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查询商品
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel

	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}

	return toProductEntity(&model), nil
}

// Update 更新商品信息(不含库存)
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	result := r.getDB(ctx).Model(&ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"image":       p.Image,
			"brand":       p.Brand,
			"category":    p.Category,
			"price":       p.Price,
			"description": p.Description,
			"updated_at":  p.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("更新商品失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// Delete 删除商品(软删除)
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&ProductModel{}, id)

	if result.Error != nil {
		return fmt.Errorf("删除商品失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// List 分页查询商品列表
// 教学要点:
// 1. 先COUNT总数,再LIMIT/OFFSET取当前页
// 2. 关键词同时匹配名称和品牌(LIKE前缀外通配)
// 3. 排序字段白名单,防止SQL注入
func (r *ProductRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	db := r.getDB(ctx).Model(&ProductModel{})

	// 关键词搜索
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		db = db.Where("name LIKE ? OR brand LIKE ?", keyword, keyword)
	}

	// 分类过滤
	if params.Category != "" {
		db = db.Where("category = ?", params.Category)
	}

	// 查询总数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("查询商品总数失败: %w", err)
	}

	// 排序(白名单)
	orderBy := "created_at DESC"
	switch params.SortBy {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "rating":
		orderBy = "rating DESC"
	}

	// 分页查询
	var models []ProductModel
	offset := (params.Page - 1) * params.PageSize
	err := db.Order(orderBy).Offset(offset).Limit(params.PageSize).Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询商品列表失败: %w", err)
	}

	products := make([]*product.Product, 0, len(models))
	for i := range models {
		products = append(products, toProductEntity(&models[i]))
	}

	return products, total, nil
}

// getDB 获取DB连接(支持事务)
func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toProductModel 领域实体 -> GORM模型
func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		Description:  p.Description,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		PublisherID:  p.PublisherID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// toProductEntity GORM模型 -> 领域实体
func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:           m.ID,
		Name:         m.Name,
		Image:        m.Image,
		Brand:        m.Brand,
		Category:     m.Category,
		Price:        m.Price,
		CountInStock: m.CountInStock,
		Description:  m.Description,
		Rating:       m.Rating,
		NumReviews:   m.NumReviews,
		PublisherID:  m.PublisherID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
