package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/duc135790/smartstore/docs" // swag生成的API文档
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
	"github.com/duc135790/smartstore/pkg/metrics"
	"github.com/duc135790/smartstore/pkg/mq"
	"github.com/duc135790/smartstore/pkg/response"
	"github.com/duc135790/smartstore/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire自动生成的替代方案）
//
// @title                      SmartStore API
// @version                    1.0
// @description                电商订单后端：商品、购物车、订单与库存预留
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                格式: Bearer {access_token}
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化可观测性组件
	metrics.InitMetrics()
	fmt.Printf("✓ Prometheus指标注册成功\n")

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("smartstore-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
		fmt.Printf("✓ 链路追踪初始化成功 (OTLP: %s)\n", cfg.Tracing.Endpoint)
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	fmt.Printf("✓ MySQL连接成功\n")

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}
	fmt.Printf("✓ Redis连接成功\n")

	// 5. 初始化RabbitMQ发布器（订单事件 → 运营看板）
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		log.Fatalf("初始化RabbitMQ失败: %v", err)
	}
	defer publisher.Close()
	fmt.Printf("✓ RabbitMQ连接成功 (exchange: %s)\n", cfg.MQ.Exchange)

	// 6. 初始化仓储层
	customerRepo := mysql.NewCustomerRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	inventoryLedger := mysql.NewInventoryLedger(db)
	txManager := mysql.NewTxManager(db)

	// 7. 初始化领域服务与通知分发器
	customerService := customer.NewService(customerRepo)

	dispatcher := notification.NewDispatcher(
		notificationRepo,
		notify.NewEmailChannel(cfg.SMTP),
		notify.NewSMSChannel(),
		notify.NewPushChannel(),
		notify.NewDashboardChannel(publisher, cfg.MQ.Exchange),
	)

	// 8. 初始化JWT管理器与Session存储
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	sessionStore := redis.NewSessionStore(redisClient)

	// 9. 初始化应用层用例
	registerUseCase := appuser.NewRegisterUseCase(customerService)
	loginUseCase := appuser.NewLoginUseCase(customerService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)

	createProductUseCase := appproduct.NewCreateProductUseCase(productRepo)
	listProductsUseCase := appproduct.NewListProductsUseCase(productRepo)
	getProductUseCase := appproduct.NewGetProductUseCase(productRepo)

	cartUseCase := appcart.NewUseCase(cartRepo, productRepo)

	createOrderUseCase := apporder.NewCreateOrderUseCase(
		orderRepo, productRepo, cartRepo, customerRepo,
		inventoryLedger, txManager, dispatcher,
	)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, customerRepo, inventoryLedger, dispatcher)
	deliverOrderUseCase := apporder.NewDeliverOrderUseCase(orderRepo, customerRepo, dispatcher)
	setStatusUseCase := apporder.NewSetStatusUseCase(orderRepo, customerRepo, dispatcher)
	queryOrdersUseCase := apporder.NewQueryOrdersUseCase(orderRepo)

	// 10. 初始化HTTP处理器
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	productHandler := handler.NewProductHandler(createProductUseCase, listProductsUseCase, getProductUseCase)
	cartHandler := handler.NewCartHandler(cartUseCase)
	orderHandler := handler.NewOrderHandler(
		createOrderUseCase, cancelOrderUseCase, deliverOrderUseCase,
		setStatusUseCase, queryOrdersUseCase,
	)

	// 11. 初始化中间件
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 12. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 13. 注册路由
	registerRoutes(r, userHandler, productHandler, cartHandler, orderHandler, authMiddleware)

	// 14. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   客户注册: POST http://localhost%s/api/v1/register\n", addr)
	fmt.Printf("   商品列表: GET  http://localhost%s/api/v1/products\n", addr)
	fmt.Printf("   创建订单: POST http://localhost%s/api/v1/orders (需要登录)\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标采集端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 账户模块（公开接口，不需要登录）
		v1.POST("/register", userHandler.Register)
		v1.POST("/login", userHandler.Login)

		// 商品模块（浏览公开，不需要登录）
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/logout", userHandler.Logout)

			// 购物车模块
			authorized.GET("/cart", cartHandler.GetCart)
			authorized.POST("/cart/items", cartHandler.AddItem)
			authorized.PUT("/cart/items/:product_id", cartHandler.UpdateItem)
			authorized.DELETE("/cart/items/:product_id", cartHandler.RemoveItem)

			// 订单模块（买家侧）
			authorized.POST("/orders", orderHandler.CreateOrder)
			authorized.GET("/orders", orderHandler.GetMyOrders)
			authorized.GET("/orders/:id", orderHandler.GetOrder)
			authorized.POST("/orders/:id/cancel", orderHandler.CancelOrder)
		}

		// 管理端路由（需要登录且具备管理员角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.POST("/products", productHandler.CreateProduct)
			admin.GET("/orders", orderHandler.GetAllOrders)
			admin.PUT("/orders/:id/deliver", orderHandler.DeliverOrder)
			admin.PUT("/orders/:id/status", orderHandler.SetOrderStatus)
		}
	}
}
