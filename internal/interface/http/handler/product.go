package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appproduct "github.com/duc135790/smartstore/internal/application/product"
	"github.com/duc135790/smartstore/internal/interface/http/dto"
	"github.com/duc135790/smartstore/internal/interface/http/middleware"
	"github.com/duc135790/smartstore/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	createUseCase *appproduct.CreateProductUseCase
	listUseCase   *appproduct.ListProductsUseCase
	getUseCase    *appproduct.GetProductUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	createUseCase *appproduct.CreateProductUseCase,
	listUseCase *appproduct.ListProductsUseCase,
	getUseCase *appproduct.GetProductUseCase,
) *ProductHandler {
	return &ProductHandler{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
	}
}

// CreateProduct 商品上架
// @Summary      商品上架
// @Description  管理员上架新商品
// @Tags         商品模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "上架成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /admin/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appproduct.CreateProductRequest{
		Name:         req.Name,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		Price:        req.Price,
		CountInStock: req.CountInStock,
		Description:  req.Description,
		PublisherID:  middleware.MustGetCustomerID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductDTO(result))
}

// ListProducts 商品列表
// @Summary      商品列表
// @Description  公开接口，支持关键词搜索、分类过滤、排序、分页
// @Tags         商品模块
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词(名称/品牌)"
// @Param        category query string false "分类"
// @Param        sort_by query string false "排序" Enums(price_asc, price_desc, rating)
// @Success      200 {object} response.Response{data=dto.ListProductsResponse} "查询成功"
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appproduct.ListProductsRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Category: req.Category,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.ProductResponse, 0, len(result.Products))
	for _, p := range result.Products {
		list = append(list, *toProductDTO(p))
	}

	response.Success(c, &dto.ListProductsResponse{
		List:  list,
		Total: result.Total,
		Page:  result.Page,
		Size:  result.PageSize,
	})
}

// GetProduct 商品详情
// @Summary      商品详情
// @Tags         商品模块
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "查询成功"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的商品ID")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductDTO(result))
}

// toProductDTO 应用层DTO -> HTTP层DTO
func toProductDTO(p *appproduct.ProductResponse) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Price:        p.Price,
		PriceYuan:    dto.FormatPriceYuan(p.Price),
		CountInStock: p.CountInStock,
		Description:  p.Description,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		CreatedAt:    p.CreatedAt,
	}
}
