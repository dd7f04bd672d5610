package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/duc135790/smartstore/internal/application/order"
	"github.com/duc135790/smartstore/internal/domain/order"
	"github.com/duc135790/smartstore/internal/interface/http/dto"
	"github.com/duc135790/smartstore/internal/interface/http/middleware"
	"github.com/duc135790/smartstore/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createUseCase    *apporder.CreateOrderUseCase
	cancelUseCase    *apporder.CancelOrderUseCase
	deliverUseCase   *apporder.DeliverOrderUseCase
	setStatusUseCase *apporder.SetStatusUseCase
	queryUseCase     *apporder.QueryOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	deliverUseCase *apporder.DeliverOrderUseCase,
	setStatusUseCase *apporder.SetStatusUseCase,
	queryUseCase *apporder.QueryOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase:    createUseCase,
		cancelUseCase:    cancelUseCase,
		deliverUseCase:   deliverUseCase,
		setStatusUseCase: setStatusUseCase,
		queryUseCase:     queryUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  从当前客户的购物车下单（需要登录），库存预留使用原子条件更新防止超卖
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "收货信息与核对金额"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "收货信息不完整/金额不符/购物车为空"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "商品不存在"
// @Failure      409 {object} response.Response "库存不足"
// @Router       /orders [post]
//
// 教学说明:防超卖的核心链路
// 1. 逐商品预留库存:单条原子条件UPDATE(WHERE count_in_stock >= ?)
// 2. 任一预留失败,已预留的按逆序补偿归还(saga)
// 3. 订单落库+清空购物车在同一DB事务中完成
//
// 测试方法:
// 1. 上架库存为10的商品
// 2. 两个账号各加购6件并发下单
// 3. 预期结果:一个成功(剩余4),另一个返回库存不足,库存不为负
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		CustomerID: middleware.MustGetCustomerID(c),
		Shipping: order.ShippingAddress{
			Address: req.Address,
			City:    req.City,
			Phone:   req.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDTO(result))
}

// GetMyOrders 我的订单列表
// @Summary      我的订单列表
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=dto.OrderListResponse} "查询成功"
// @Router       /orders [get]
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.queryUseCase.GetMyOrders(c.Request.Context(), middleware.MustGetCustomerID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderListDTO(result))
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  客户只能查自己的订单，管理员可查任意订单
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "查询成功"
// @Failure      403 {object} response.Response "无权限访问"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.queryUseCase.GetOrderByID(c.Request.Context(), orderID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDTO(result))
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  客户取消自己的订单或管理员取消任意订单；已送达/已取消的订单拒绝取消；取消后归还库存
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "取消成功"
// @Failure      403 {object} response.Response "无权限访问"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "订单已送达或已取消"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), orderID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDTO(result))
}

// GetAllOrders 全部订单列表(管理端)
// @Summary      全部订单列表
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=dto.OrderListResponse} "查询成功"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /admin/orders [get]
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.queryUseCase.GetAllOrders(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderListDTO(result))
}

// DeliverOrder 标记订单送达(管理端)
// @Summary      标记订单送达
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "标记成功"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "订单处于终态"
// @Router       /admin/orders/{id}/deliver [put]
func (h *OrderHandler) DeliverOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.deliverUseCase.Execute(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDTO(result))
}

// SetOrderStatus 订单状态流转(管理端)
// @Summary      订单状态流转
// @Description  状态单向推进(允许跳跃)，终态不可变更；取消请走cancel接口以归还库存
// @Tags         订单管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.SetOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "流转成功"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "非法流转/终态"
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.setStatusUseCase.Execute(c.Request.Context(), orderID, order.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDTO(result))
}

// parseOrderID 从路径参数解析订单ID
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return 0, false
	}
	return uint(id), true
}

// actorFrom 从认证上下文构建操作者身份
func actorFrom(c *gin.Context) apporder.Actor {
	return apporder.Actor{
		ID:      middleware.MustGetCustomerID(c),
		IsAdmin: middleware.GetIsAdmin(c),
	}
}

// toOrderDTO 应用层DTO -> HTTP层DTO
func toOrderDTO(o *apporder.OrderResponse) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
			PriceYuan: item.PriceYuan,
		})
	}

	return &dto.OrderResponse{
		OrderID:       o.OrderID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		Items:         items,
		Address:       o.Address,
		City:          o.City,
		Phone:         o.Phone,
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice,
		TotalYuan:     o.TotalYuan,
		Status:        o.Status,
		StatusText:    o.StatusText,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
	}
}

// toOrderListDTO 列表响应转换
func toOrderListDTO(r *apporder.OrderListResponse) *dto.OrderListResponse {
	list := make([]*dto.OrderResponse, 0, len(r.Orders))
	for _, o := range r.Orders {
		list = append(list, toOrderDTO(o))
	}
	return &dto.OrderListResponse{
		List:  list,
		Total: r.Total,
		Page:  r.Page,
		Size:  r.PageSize,
	}
}
