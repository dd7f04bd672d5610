package dto

// CreateOrderRequest HTTP下单请求
// 说明:订单明细来自客户的购物车,请求只携带收货信息和核对用总金额
type CreateOrderRequest struct {
	Address       string `json:"address" binding:"required,max=255" example:"科技路100号"`
	City          string `json:"city" binding:"required,max=100" example:"深圳"`
	Phone         string `json:"phone" binding:"required,max=30" example:"13800138000"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=30" example:"COD"`
	TotalPrice    int64  `json:"total_price" binding:"required" example:"150000"` // 客户端计算的总金额(分),服务端核对
}

// SetOrderStatusRequest HTTP状态流转请求(管理端)
type SetOrderStatusRequest struct {
	Status int `json:"status" binding:"required,min=1,max=5" example:"3"` // 1处理中 2已确认 3配送中 4已送达 5已取消
}

// OrderItemResponse 订单明细响应
type OrderItemResponse struct {
	ProductID uint   `json:"product_id" example:"1"`
	Name      string `json:"name" example:"机械键盘"`
	Image     string `json:"image" example:"https://example.com/keyboard.jpg"`
	Quantity  int    `json:"quantity" example:"3"`
	Price     int64  `json:"price" example:"50000"`
	PriceYuan string `json:"price_yuan" example:"500.00"`
}

// OrderResponse HTTP订单响应
type OrderResponse struct {
	OrderID       uint                `json:"order_id" example:"1"`
	OrderNo       string              `json:"order_no" example:"ORD1756444800123456"`
	CustomerID    uint                `json:"customer_id" example:"42"`
	Items         []OrderItemResponse `json:"items"`
	Address       string              `json:"address" example:"科技路100号"`
	City          string              `json:"city" example:"深圳"`
	Phone         string              `json:"phone" example:"13800138000"`
	PaymentMethod string              `json:"payment_method" example:"COD"`
	TotalPrice    int64               `json:"total_price" example:"150000"`
	TotalYuan     string              `json:"total_yuan" example:"1500.00"`
	Status        int                 `json:"status" example:"1"`
	StatusText    string              `json:"status_text" example:"处理中"`
	IsPaid        bool                `json:"is_paid" example:"false"`
	PaidAt        string              `json:"paid_at,omitempty" example:"2026-08-15 10:30:00"`
	IsDelivered   bool                `json:"is_delivered" example:"false"`
	DeliveredAt   string              `json:"delivered_at,omitempty" example:"2026-08-18 14:00:00"`
	CreatedAt     string              `json:"created_at" example:"2026-08-15 10:30:00"`
}

// OrderListResponse HTTP订单列表响应
type OrderListResponse struct {
	List  []*OrderResponse `json:"list"`
	Total int64            `json:"total" example:"3"`
	Page  int              `json:"page" example:"1"`
	Size  int              `json:"size" example:"10"`
}

// ListOrdersRequest HTTP订单列表请求(分页)
type ListOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}
