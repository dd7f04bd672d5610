package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/duc135790/smartstore/internal/domain/order"
)

// OrderRepository 订单仓储的MySQL实现
// 教学要点:
// 1. 订单和明细是一对多关系,Create时级联保存
// 2. 查询时使用Preload预加载明细,避免N+1查询
// 3. Update只写状态类字段,明细和金额下单后不可变
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &OrderRepository{db: db}
}

// Create 创建订单(含明细)
// 教学要点:GORM会自动级联创建关联的Items
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("订单号重复: %s", o.OrderNo)
		}
		return fmt.Errorf("创建订单失败: %w", err)
	}

	// 回填自增ID(含明细ID)
	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查询订单(含明细)
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel

	err := r.getDB(ctx).Preload("Items").Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}

	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查询订单(含明细)
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel

	err := r.getDB(ctx).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}

	return toOrderEntity(&model), nil
}

// Update 条件更新订单状态类字段
// 设计说明:
// 1. 只更新状态/支付/送达标记,明细和金额不可变
// 2. 使用map明确指定更新字段,避免GORM零值陷阱(IsPaid=false会被Struct更新忽略)
// 3. WHERE带上读出时的状态做条件写:并发的状态流转只有一方能命中,
//    落选方拿到ErrStatusConflict后重读再判定(与库存台账的原子UPDATE同一套路)
func (r *OrderRepository) Update(ctx context.Context, o *order.Order, from order.Status) error {
	result := r.getDB(ctx).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Where("status = ?", int(from)).
		Updates(map[string]interface{}{
			"status":       int(o.Status),
			"is_paid":      o.IsPaid,
			"paid_at":      o.PaidAt,
			"is_delivered": o.IsDelivered,
			"delivered_at": o.DeliveredAt,
			"updated_at":   o.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("更新订单失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// 重查一次区分"订单不存在"和"状态被并发修改"
		var model OrderModel
		err := r.getDB(ctx).Select("id").First(&model, o.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("查询订单失败: %w", err)
		}
		return order.ErrStatusConflict
	}

	return nil
}

// ListByCustomerID 分页查询客户的订单列表
func (r *OrderRepository) ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	db := r.getDB(ctx).Model(&OrderModel{}).Where("customer_id = ?", customerID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("查询订单总数失败: %w", err)
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询订单列表失败: %w", err)
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}

	return orders, total, nil
}

// List 分页查询全部订单(管理端)
func (r *OrderRepository) List(ctx context.Context, page, pageSize int) ([]*order.Order, int64, error) {
	db := r.getDB(ctx).Model(&OrderModel{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("查询订单总数失败: %w", err)
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询订单列表失败: %w", err)
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}

	return orders, total, nil
}

// getDB 获取DB连接(支持事务)
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toOrderModel 领域实体 -> GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &OrderModel{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		Address:       o.Shipping.Address,
		City:          o.Shipping.City,
		Phone:         o.Shipping.Phone,
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice,
		Status:        int(o.Status),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 -> 领域实体
func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.Item, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, order.Item{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &order.Order{
		ID:         m.ID,
		OrderNo:    m.OrderNo,
		CustomerID: m.CustomerID,
		Items:      items,
		Shipping: order.ShippingAddress{
			Address: m.Address,
			City:    m.City,
			Phone:   m.Phone,
		},
		PaymentMethod: m.PaymentMethod,
		TotalPrice:    m.TotalPrice,
		Status:        order.Status(m.Status),
		IsPaid:        m.IsPaid,
		PaidAt:        m.PaidAt,
		IsDelivered:   m.IsDelivered,
		DeliveredAt:   m.DeliveredAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
