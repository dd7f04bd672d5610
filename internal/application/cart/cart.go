// Package cart 实现购物车的应用层用例
package cart

import (
	"context"

	"github.com/duc135790/smartstore/internal/domain/cart"
	"github.com/duc135790/smartstore/internal/domain/product"
)

// UseCase 购物车用例
// 教学要点:
// 1. 加购时从商品目录取当前名称/图片/价格做快照,不信任前端传的价格
// 2. 下单后购物车由下单用例在事务内清空,这里不提供"结算"入口
type UseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewUseCase 创建购物车用例
func NewUseCase(cartRepo cart.Repository, productRepo product.Repository) *UseCase {
	return &UseCase{cartRepo: cartRepo, productRepo: productRepo}
}

// ItemResponse 购物车行项响应DTO
type ItemResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// CartResponse 购物车响应DTO
type CartResponse struct {
	Items      []ItemResponse `json:"items"`
	TotalPrice int64          `json:"total_price"`
}

// Add 加入购物车
// 同一商品重复加购时数量合并(Upsert)
func (uc *UseCase) Add(ctx context.Context, customerID, productID uint, quantity int) error {
	if quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	// 快照商品当前信息
	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	return uc.cartRepo.Upsert(ctx, &cart.Item{
		CustomerID: customerID,
		ProductID:  productID,
		Name:       p.Name,
		Image:      p.Image,
		Price:      p.Price,
		Quantity:   quantity,
	})
}

// Get 查询购物车
func (uc *UseCase) Get(ctx context.Context, customerID uint) (*CartResponse, error) {
	items, err := uc.cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, ItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
		resp.TotalPrice += item.Subtotal()
	}

	return resp, nil
}

// UpdateQuantity 修改行项数量
func (uc *UseCase) UpdateQuantity(ctx context.Context, customerID, productID uint, quantity int) error {
	if quantity <= 0 {
		return cart.ErrInvalidQuantity
	}
	return uc.cartRepo.UpdateQuantity(ctx, customerID, productID, quantity)
}

// Remove 移除行项
func (uc *UseCase) Remove(ctx context.Context, customerID, productID uint) error {
	return uc.cartRepo.Remove(ctx, customerID, productID)
}
