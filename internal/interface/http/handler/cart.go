package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcart "github.com/duc135790/smartstore/internal/application/cart"
	"github.com/duc135790/smartstore/internal/interface/http/dto"
	"github.com/duc135790/smartstore/internal/interface/http/middleware"
	"github.com/duc135790/smartstore/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	cartUseCase *appcart.UseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartUseCase *appcart.UseCase) *CartHandler {
	return &CartHandler{cartUseCase: cartUseCase}
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  同一商品重复加购时数量合并
// @Tags         购物车模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "加购信息"
// @Success      200 {object} response.Response "加购成功"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	if err := h.cartUseCase.Add(c.Request.Context(), customerID, req.ProductID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetCart 查询购物车
// @Summary      查询购物车
// @Tags         购物车模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartResponse} "查询成功"
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	customerID := middleware.MustGetCustomerID(c)

	result, err := h.cartUseCase.Get(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CartItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, dto.CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}

	response.Success(c, &dto.CartResponse{
		Items:      items,
		TotalPrice: result.TotalPrice,
		TotalYuan:  dto.FormatPriceYuan(result.TotalPrice),
	})
}

// UpdateItem 修改购物车数量
// @Summary      修改购物车数量
// @Tags         购物车模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path int true "商品ID"
// @Param        request body dto.UpdateCartItemRequest true "数量"
// @Success      200 {object} response.Response "修改成功"
// @Failure      404 {object} response.Response "购物车中没有该商品"
// @Router       /cart/items/{product_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	if err := h.cartUseCase.UpdateQuantity(c.Request.Context(), customerID, uint(productID), req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveItem 移除购物车商品
// @Summary      移除购物车商品
// @Tags         购物车模块
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path int true "商品ID"
// @Success      200 {object} response.Response "移除成功"
// @Router       /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	if err := h.cartUseCase.Remove(c.Request.Context(), customerID, uint(productID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
