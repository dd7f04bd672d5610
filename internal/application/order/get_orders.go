package order

import (
	"context"

	"github.com/duc135790/smartstore/internal/domain/order"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

// QueryOrdersUseCase 订单查询用例
// 汇总三个只读操作:我的订单、全部订单(管理端)、订单详情
type QueryOrdersUseCase struct {
	orderRepo order.Repository
}

// NewQueryOrdersUseCase 创建订单查询用例
func NewQueryOrdersUseCase(orderRepo order.Repository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{orderRepo: orderRepo}
}

// OrderListResponse 订单列表响应DTO
type OrderListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Orders   []*OrderResponse `json:"orders"`
}

// GetMyOrders 查询当前客户的订单
func (uc *QueryOrdersUseCase) GetMyOrders(ctx context.Context, customerID uint, page, pageSize int) (*OrderListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	orders, total, err := uc.orderRepo.ListByCustomerID(ctx, customerID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return toOrderListResponse(orders, total, page, pageSize), nil
}

// GetAllOrders 查询全部订单(管理端,权限由中间件保证)
func (uc *QueryOrdersUseCase) GetAllOrders(ctx context.Context, page, pageSize int) (*OrderListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	orders, total, err := uc.orderRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	return toOrderListResponse(orders, total, page, pageSize), nil
}

// GetOrderByID 查询订单详情
// 权限:管理员可以查任意订单,客户只能查自己的订单
func (uc *QueryOrdersUseCase) GetOrderByID(ctx context.Context, orderID uint, actor Actor) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin && !o.IsOwnedBy(actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	return toOrderResponse(o), nil
}

// normalizePage 分页参数兜底
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// toOrderListResponse 构建列表响应
func toOrderListResponse(orders []*order.Order, total int64, page, pageSize int) *OrderListResponse {
	items := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o))
	}
	return &OrderListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Orders:   items,
	}
}
