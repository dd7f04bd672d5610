package customer

import (
	"time"
)

// Customer 客户实体（聚合根）
// DDD设计说明：
// 1. Customer是客户聚合的根实体，包含客户的核心属性
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. IsAdmin是角色标志，管理员可以管理商品和所有订单
// 4. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type Customer struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	IsAdmin   bool // 管理员标志
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer 创建新客户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewCustomer(email, hashedPassword, name string) *Customer {
	now := time.Now()
	return &Customer{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		IsAdmin:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateName 更新姓名（领域行为）
func (c *Customer) UpdateName(name string) {
	c.Name = name
	c.UpdatedAt = time.Now()
}

// GrantAdmin 授予管理员角色
func (c *Customer) GrantAdmin() {
	c.IsAdmin = true
	c.UpdatedAt = time.Now()
}
