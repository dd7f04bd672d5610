//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewCustomerRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appcart "github.com/duc135790/smartstore/internal/application/cart"
	apporder "github.com/duc135790/smartstore/internal/application/order"
	appproduct "github.com/duc135790/smartstore/internal/application/product"
	appuser "github.com/duc135790/smartstore/internal/application/user"
	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/domain/notification"
	"github.com/duc135790/smartstore/internal/infrastructure/config"
	"github.com/duc135790/smartstore/internal/infrastructure/notify"
	"github.com/duc135790/smartstore/internal/infrastructure/persistence/mysql"
	"github.com/duc135790/smartstore/internal/infrastructure/persistence/redis"
	"github.com/duc135790/smartstore/internal/interface/http/handler"
	"github.com/duc135790/smartstore/internal/interface/http/middleware"
	"github.com/duc135790/smartstore/pkg/jwt"
	"github.com/duc135790/smartstore/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================
// 教学说明：
// ProviderSet 将相关的 Provider 分组，便于管理和复用

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、消息队列
var infrastructureSet = wire.NewSet(
	config.Load,      // 加载配置文件
	mysql.NewDB,      // 创建MySQL连接
	redis.NewClient,  // 创建Redis连接
	providePublisher, // 创建RabbitMQ发布器
)

// repositorySet 仓储层依赖
// 包含：所有Repository的构造函数与库存台账
var repositorySet = wire.NewSet(
	mysql.NewCustomerRepository,     // 客户仓储
	mysql.NewProductRepository,      // 商品仓储
	mysql.NewCartRepository,         // 购物车仓储
	mysql.NewOrderRepository,        // 订单仓储
	mysql.NewNotificationRepository, // 通知审计仓储
	mysql.NewInventoryLedger,        // 库存台账
	provideTxManager,                // 事务管理器（绑定到应用层接口）
)

// domainSet 领域层依赖
// 包含：领域服务与通知分发器
var domainSet = wire.NewSet(
	customer.NewService, // 客户领域服务
	provideDispatcher,   // 通知分发器（聚合四个发送通道）
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,         // 客户注册用例
	appuser.NewLoginUseCase,            // 客户登录用例
	appuser.NewLogoutUseCase,           // 客户登出用例
	appproduct.NewCreateProductUseCase, // 商品上架用例
	appproduct.NewListProductsUseCase,  // 商品列表用例
	appproduct.NewGetProductUseCase,    // 商品详情用例
	appcart.NewUseCase,                 // 购物车用例
	apporder.NewCreateOrderUseCase,     // 创建订单用例
	apporder.NewCancelOrderUseCase,     // 取消订单用例
	apporder.NewDeliverOrderUseCase,    // 订单送达用例
	apporder.NewSetStatusUseCase,       // 订单状态推进用例
	apporder.NewQueryOrdersUseCase,     // 订单查询用例
)

// middlewareSet 中间件依赖
// 包含：JWT管理器、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
// 包含：所有Handler的构造函数
var handlerSet = wire.NewSet(
	handler.NewUserHandler,    // 账户处理器
	handler.NewProductHandler, // 商品处理器
	handler.NewCartHandler,    // 购物车处理器
	handler.NewOrderHandler,   // 订单处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideJWTManager 从配置创建JWT管理器
// 教学要点：config.Config 包含多个字段，但jwt.NewManager只需要JWT相关的配置
// Wire无法自动知道如何从Config提取参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 从配置创建RabbitMQ发布器
// 订单事件统一发往topic交换机，路由键 order.{event}
func providePublisher(cfg *config.Config) (*mq.Publisher, error) {
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideTxManager 以应用层接口类型暴露事务管理器
// 教学要点：CreateOrderUseCase依赖的是apporder.TxManager接口而非*mysql.TxManager，
// 这样单元测试可以注入假实现。Wire按类型匹配，所以Provider的返回类型声明为接口
func provideTxManager(db *gorm.DB) apporder.TxManager {
	return mysql.NewTxManager(db)
}

// provideDispatcher 聚合四个发送通道创建通知分发器
// 教学要点：NewDispatcher的通道参数是变长参数，Wire不支持变长注入，
// 所以在这里手动列出所有通道
func provideDispatcher(
	cfg *config.Config,
	records notification.RecordRepository,
	publisher *mq.Publisher,
) *notification.Dispatcher {
	return notification.NewDispatcher(
		records,
		notify.NewEmailChannel(cfg.SMTP),
		notify.NewSMSChannel(),
		notify.NewPushChannel(),
		notify.NewDashboardChannel(publisher, cfg.MQ.Exchange),
	)
}

// provideGinEngine 创建并配置Gin引擎
// 教学要点：
// 1. Gin引擎需要注册所有路由
// 2. 路由注册需要所有的Handler和Middleware
// 3. Wire会自动注入这些依赖
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 复用main.go中的路由注册（含/ping、/metrics、/swagger）
	registerRoutes(r, userHandler, productHandler, cartHandler, orderHandler, authMiddleware)

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// 教学说明：
// InitializeApp是Wire的入口函数（Injector）
//
// wire.Build() 告诉Wire需要哪些Provider来构建*gin.Engine
// Wire会自动分析依赖关系：
//
// 依赖链示例：
// *gin.Engine 需要 → *handler.OrderHandler
// *handler.OrderHandler 需要 → *apporder.CreateOrderUseCase
// *apporder.CreateOrderUseCase 需要 → inventory.Ledger
// inventory.Ledger 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config
//
// Wire会按正确的顺序调用所有构造函数

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
// 错误：如果任何依赖创建失败
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值类型必须与wire.Build的最终产出一致
	// Wire会在wire_gen.go中生成实际的初始化代码
	return nil, nil
}
