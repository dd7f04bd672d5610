package product

import (
	"context"

	"github.com/duc135790/smartstore/internal/domain/product"
)

// ListProductsUseCase 商品列表用例(公开接口)
type ListProductsUseCase struct {
	productRepo product.Repository
}

// NewListProductsUseCase 创建列表用例
func NewListProductsUseCase(productRepo product.Repository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

// ListProductsRequest 列表请求DTO
type ListProductsRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(名称/品牌)
	Category string // 分类过滤
	SortBy   string // 排序: price_asc | price_desc | rating | 默认按创建时间
}

// ListProductsResponse 列表响应DTO
type ListProductsResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Products []*ProductResponse `json:"products"`
}

// Execute 执行列表查询
func (uc *ListProductsUseCase) Execute(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 10
	}

	products, total, err := uc.productRepo.List(ctx, product.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Category: req.Category,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}

	return &ListProductsResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Products: items,
	}, nil
}

// GetProductUseCase 商品详情用例
type GetProductUseCase struct {
	productRepo product.Repository
}

// NewGetProductUseCase 创建详情用例
func NewGetProductUseCase(productRepo product.Repository) *GetProductUseCase {
	return &GetProductUseCase{productRepo: productRepo}
}

// Execute 查询商品详情
func (uc *GetProductUseCase) Execute(ctx context.Context, id uint) (*ProductResponse, error) {
	p, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}
