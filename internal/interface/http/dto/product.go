package dto

import "fmt"

// CreateProductRequest HTTP商品上架请求(管理端)
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type CreateProductRequest struct {
	Name         string `json:"name" binding:"required,max=200" example:"机械键盘"`
	Image        string `json:"image" binding:"omitempty,url,max=500" example:"https://example.com/keyboard.jpg"`
	Brand        string `json:"brand" binding:"max=100" example:"Keychron"`
	Category     string `json:"category" binding:"max=100" example:"外设"`
	Price        int64  `json:"price" binding:"required,min=1,max=99999999" example:"50000"` // 价格(分),500.00元
	CountInStock int    `json:"count_in_stock" binding:"min=0" example:"100"`
	Description  string `json:"description" binding:"max=5000" example:"87键热插拔机械键盘"`
}

// ProductResponse HTTP商品响应
type ProductResponse struct {
	ID           uint    `json:"id" example:"1"`
	Name         string  `json:"name" example:"机械键盘"`
	Image        string  `json:"image" example:"https://example.com/keyboard.jpg"`
	Brand        string  `json:"brand" example:"Keychron"`
	Category     string  `json:"category" example:"外设"`
	Price        int64   `json:"price" example:"50000"`
	PriceYuan    string  `json:"price_yuan" example:"500.00"` // 价格(元),方便前端显示
	CountInStock int     `json:"count_in_stock" example:"100"`
	Description  string  `json:"description" example:"87键热插拔机械键盘"`
	Rating       float64 `json:"rating" example:"4.5"`
	NumReviews   int     `json:"num_reviews" example:"12"`
	CreatedAt    string  `json:"created_at" example:"2026-08-15 10:30:00"`
}

// ListProductsRequest HTTP商品列表请求
type ListProductsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"键盘"`
	Category string `form:"category" binding:"omitempty,max=100" example:"外设"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc rating" example:"price_asc"`
}

// ListProductsResponse HTTP商品列表响应
type ListProductsResponse struct {
	List  []ProductResponse `json:"list"`
	Total int64             `json:"total" example:"100"`
	Page  int               `json:"page" example:"1"`
	Size  int               `json:"size" example:"20"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:50000分 → "500.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
