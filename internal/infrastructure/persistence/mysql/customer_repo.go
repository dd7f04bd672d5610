package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/duc135790/smartstore/internal/domain/customer"
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

// CustomerRepository 客户仓储的MySQL实现
// 教学要点:
// 1. 邮箱唯一索引冲突映射为领域错误ErrEmailDuplicate
// 2. 领域实体与GORM模型互转,domain层不依赖GORM
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &CustomerRepository{db: db}
}

// Create 创建客户
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := toCustomerModel(c)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		// 唯一索引冲突 -> 邮箱已注册
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return fmt.Errorf("创建客户失败: %w", err)
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查询客户
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel

	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("查询客户失败: %w", err)
	}

	return toCustomerEntity(&model), nil
}

// FindByEmail 根据邮箱查询客户
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var model CustomerModel

	err := r.getDB(ctx).Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("查询客户失败: %w", err)
	}

	return toCustomerEntity(&model), nil
}

// Update 更新客户信息
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	result := r.getDB(ctx).Model(&CustomerModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"password":   c.Password,
			"is_admin":   c.IsAdmin,
			"updated_at": c.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("更新客户失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}

	return nil
}

// Delete 删除客户(软删除)
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&CustomerModel{}, id)

	if result.Error != nil {
		return fmt.Errorf("删除客户失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}

	return nil
}

// getDB 获取DB连接(支持事务)
func (r *CustomerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toCustomerModel 领域实体 -> GORM模型
func toCustomerModel(c *customer.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Email:     c.Email,
		Password:  c.Password,
		Name:      c.Name,
		IsAdmin:   c.IsAdmin,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// toCustomerEntity GORM模型 -> 领域实体
func toCustomerEntity(m *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		Name:      m.Name,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
