package dto

// AddCartItemRequest HTTP加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateCartItemRequest HTTP修改购物车数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// CartItemResponse 购物车行项响应
type CartItemResponse struct {
	ProductID uint   `json:"product_id" example:"1"`
	Name      string `json:"name" example:"机械键盘"`
	Image     string `json:"image" example:"https://example.com/keyboard.jpg"`
	Price     int64  `json:"price" example:"50000"`
	Quantity  int    `json:"quantity" example:"2"`
	Subtotal  int64  `json:"subtotal" example:"100000"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice int64              `json:"total_price" example:"100000"`
	TotalYuan  string             `json:"total_yuan" example:"1000.00"`
}
