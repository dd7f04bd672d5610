// Package product 实现商品目录的应用层用例(管理端上架/公开列表)
package product

import (
	"context"
	"strings"

	"github.com/duc135790/smartstore/internal/domain/product"
)

// CreateProductUseCase 商品上架用例(管理端)
// 设计说明:
// 1. 应用层负责用例编排,输入输出使用DTO与HTTP层解耦
// 2. 基础校验(名称/价格/库存)在这里完成,商品目录没有更复杂的领域规则
type CreateProductUseCase struct {
	productRepo product.Repository
}

// NewCreateProductUseCase 创建上架用例
func NewCreateProductUseCase(productRepo product.Repository) *CreateProductUseCase {
	return &CreateProductUseCase{productRepo: productRepo}
}

// CreateProductRequest 上架请求DTO
type CreateProductRequest struct {
	Name         string // 商品名称
	Image        string // 图片URL
	Brand        string // 品牌
	Category     string // 分类
	Price        int64  // 价格(分)
	CountInStock int    // 初始库存
	Description  string // 商品描述
	PublisherID  uint   // 上架者ID(从认证中间件获取)
}

// ProductResponse 商品响应DTO
type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Price        int64   `json:"price"` // 价格(分)
	CountInStock int     `json:"count_in_stock"`
	Description  string  `json:"description"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"num_reviews"`
	CreatedAt    string  `json:"created_at"`
}

// Execute 执行上架用例
func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// 基础校验
	if strings.TrimSpace(req.Name) == "" {
		return nil, product.ErrInvalidName
	}
	if req.Price <= 0 {
		return nil, product.ErrInvalidPrice
	}
	if req.CountInStock < 0 {
		return nil, product.ErrInvalidStock
	}

	p := product.NewProduct(
		req.Name,
		req.Image,
		req.Brand,
		req.Category,
		req.Price,
		req.CountInStock,
		req.Description,
		req.PublisherID,
	)

	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return toProductResponse(p), nil
}

// toProductResponse 领域实体 -> 响应DTO
func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
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
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
