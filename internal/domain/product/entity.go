package product

import (
	"time"
)

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. Product是商品聚合的根实体,包含商品的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. CountInStock是可售库存,只能通过库存台账的原子操作扣减/归还
// 4. PublisherID关联上架商品的管理员(审计用)
type Product struct {
	ID           uint
	Name         string // 商品名称
	Image        string // 商品图片URL
	Brand        string // 品牌
	Category     string // 分类
	Price        int64  // 价格(单位:分,1元=100分)
	CountInStock int    // 可售库存数量
	Description  string // 商品描述
	Rating       float64
	NumReviews   int
	PublisherID  uint // 上架者用户ID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct 创建新商品(工厂方法)
func NewProduct(name, image, brand, category string, price int64, countInStock int, description string, publisherID uint) *Product {
	now := time.Now()
	return &Product{
		Name:         name,
		Image:        image,
		Brand:        brand,
		Category:     category,
		Price:        price,
		CountInStock: countInStock,
		Description:  description,
		PublisherID:  publisherID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (p *Product) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	p.Price = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新商品基本信息
func (p *Product) UpdateInfo(name, image, brand, category, description string) {
	if name != "" {
		p.Name = name
	}
	if image != "" {
		p.Image = image
	}
	if brand != "" {
		p.Brand = brand
	}
	if category != "" {
		p.Category = category
	}
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = time.Now()
}

// InStock 是否有货
func (p *Product) InStock() bool {
	return p.CountInStock > 0
}
