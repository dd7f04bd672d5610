package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duc135790/smartstore/internal/infrastructure/persistence/redis"
	"github.com/duc135790/smartstore/pkg/jwt"
	"github.com/duc135790/smartstore/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单
// 4. 将客户身份（ID+角色）注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/orders", handler.GetMyOrders)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, 40100, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, 40101, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（客户已登出或Token被强制失效）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, 50000, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, 40102, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 将客户身份注入到Context（后续Handler可以使用）
		c.Set("customer_id", claims.CustomerID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("is_admin", claims.IsAdmin)
		c.Set("access_token", tokenString)

		// 6. 继续处理请求
		c.Next()
	}
}

// RequireAdmin 要求管理员角色
// 必须在RequireAuth之后使用：
//
//	admin := r.Group("/api/v1/admin")
//	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIsAdmin(c) {
			response.ErrorWithCode(c, 40104, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录
// 说明：如果有Token则验证，没有则继续（用于某些公开+登录都能访问的接口）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// 没有Token，继续处理（作为匿名客户）
			c.Next()
			return
		}

		// 有Token，验证逻辑与RequireAuth相同
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString := parts[1]
			claims, err := m.jwtManager.ParseToken(tokenString)
			if err == nil {
				c.Set("customer_id", claims.CustomerID)
				c.Set("email", claims.Email)
				c.Set("name", claims.Name)
				c.Set("is_admin", claims.IsAdmin)
			}
		}

		c.Next()
	}
}

// GetCustomerID 从Context获取当前登录客户ID
// 未登录时返回0
func GetCustomerID(c *gin.Context) uint {
	if customerID, exists := c.Get("customer_id"); exists {
		if id, ok := customerID.(uint); ok {
			return id
		}
	}
	return 0
}

// GetIsAdmin 从Context获取当前客户是否为管理员
func GetIsAdmin(c *gin.Context) bool {
	if isAdmin, exists := c.Get("is_admin"); exists {
		if b, ok := isAdmin.(bool); ok {
			return b
		}
	}
	return false
}

// GetAccessToken 从Context获取当前请求携带的Access Token（登出时用）
func GetAccessToken(c *gin.Context) string {
	if token, exists := c.Get("access_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetCustomerID 从Context获取客户ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetCustomerID(c *gin.Context) uint {
	customerID := GetCustomerID(c)
	if customerID == 0 {
		panic("customer_id not found in context")
	}
	return customerID
}
