package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/duc135790/smartstore/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&CustomerModel{},
		&ProductModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&NotificationModel{},
	)
}

// CustomerModel GORM客户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/customer/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type CustomerModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:50;not null;comment:姓名"`
	IsAdmin   bool           `gorm:"default:false;comment:管理员标志"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (CustomerModel) TableName() string {
	return "customers"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. CountInStock是可售库存,只能由库存台账的原子UPDATE修改
// 3. 添加复合索引优化列表查询性能
type ProductModel struct {
	ID           uint           `gorm:"primaryKey"`
	Name         string         `gorm:"index:idx_search;size:200;not null;comment:商品名称"` // 搜索索引
	Image        string         `gorm:"size:500;comment:商品图片URL"`
	Brand        string         `gorm:"index:idx_search;size:100;comment:品牌"` // 搜索索引
	Category     string         `gorm:"index;size:100;comment:分类"`
	Price        int64          `gorm:"index:idx_list;not null;comment:价格(分)"` // 排序索引
	CountInStock int            `gorm:"default:0;comment:可售库存数量"`
	Description  string         `gorm:"type:text;comment:商品描述"`
	Rating       float64        `gorm:"default:0;comment:评分"`
	NumReviews   int            `gorm:"default:0;comment:评价数"`
	PublisherID  uint           `gorm:"index;not null;comment:上架者用户ID"`
	CreatedAt    time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// CartItemModel GORM购物车模型
// 教学要点:
// 1. (customer_id, product_id)唯一索引,同一商品只有一行,加购合并数量
// 2. Name/Image/Price是加入购物车时刻的快照
type CartItemModel struct {
	ID         uint      `gorm:"primaryKey"`
	CustomerID uint      `gorm:"uniqueIndex:idx_cart_line;not null;comment:客户ID"`
	ProductID  uint      `gorm:"uniqueIndex:idx_cart_line;not null;comment:商品ID"`
	Name       string    `gorm:"size:200;not null;comment:商品名称快照"`
	Image      string    `gorm:"size:500;comment:商品图片快照"`
	Price      int64     `gorm:"not null;comment:单价快照(分)"`
	Quantity   int       `gorm:"not null;comment:数量"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. Status使用int存储(节省空间,便于索引)
// 4. 订单永不删除(无DeletedAt),作为审计记录保留
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	CustomerID    uint             `gorm:"index;not null;comment:买家客户ID"`
	Address       string           `gorm:"size:255;not null;comment:收货地址"`
	City          string           `gorm:"size:100;not null;comment:城市"`
	Phone         string           `gorm:"size:30;not null;comment:联系电话"`
	PaymentMethod string           `gorm:"size:30;not null;default:COD;comment:支付方式"`
	TotalPrice    int64            `gorm:"not null;comment:订单总金额(分)"`
	Status        int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1处理中2已确认3配送中4已送达5已取消)"`
	IsPaid        bool             `gorm:"default:false;comment:是否已支付"`
	PaidAt        *time.Time       `gorm:"comment:支付时间"`
	IsDelivered   bool             `gorm:"default:false;comment:是否已送达"`
	DeliveredAt   *time.Time       `gorm:"comment:送达时间"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt     time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的名称/图片/价格快照
// 2. OrderID外键关联orders表
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null;comment:订单ID"`
	ProductID uint   `gorm:"index;not null;comment:商品ID"`
	Name      string `gorm:"size:200;not null;comment:商品名称快照"`
	Image     string `gorm:"size:500;comment:商品图片快照"`
	Quantity  int    `gorm:"not null;comment:购买数量"`
	Price     int64  `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// NotificationModel GORM通知投递记录模型
// 教学要点:只追加的审计表,不参与业务控制流
type NotificationModel struct {
	ID        string    `gorm:"primaryKey;size:36;comment:UUID"`
	OrderID   uint      `gorm:"index;not null;comment:订单ID"`
	Channel   string    `gorm:"size:20;not null;comment:渠道类型"`
	Event     string    `gorm:"size:30;not null;comment:事件类型"`
	Status    string    `gorm:"size:10;not null;comment:投递结果(sent/failed)"`
	Recipient string    `gorm:"size:100;comment:收件地址"`
	Message   string    `gorm:"size:500;comment:通知内容"`
	Error     string    `gorm:"size:500;comment:失败原因"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (NotificationModel) TableName() string {
	return "notifications"
}
