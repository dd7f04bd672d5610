package user

import (
	"context"
	"log"
	"time"

	"github.com/duc135790/smartstore/internal/domain/customer"
	"github.com/duc135790/smartstore/internal/infrastructure/persistence/redis"
	"github.com/duc135790/smartstore/pkg/jwt"
)

// LoginUseCase 客户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对（含IsAdmin角色声明）
// 3. 保存会话到Redis
type LoginUseCase struct {
	customerService customer.Service
	jwtManager      *jwt.Manager
	sessionStore    *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	customerService customer.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		customerService: customerService,
		jwtManager:      jwtManager,
		sessionStore:    sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	c, err := uc.customerService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对（角色声明进入Token，中间件据此判定管理端权限）
	tokenPair, err := uc.jwtManager.GenerateToken(c.ID, c.Email, c.Name, c.IsAdmin)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"customer_id": c.ID,
		"email":       c.Email,
		"name":        c.Name,
		"is_admin":    c.IsAdmin,
		"login_at":    time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	if err := uc.sessionStore.SaveSession(ctx, c.ID, sessionData, 7*24*time.Hour); err != nil {
		// 会话保存失败不影响登录，只记录日志
		log.Printf("保存登录会话失败: customer=%d, err=%v", c.ID, err)
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Customer: CustomerInfo{
			ID:      c.ID,
			Email:   c.Email,
			Name:    c.Name,
			IsAdmin: c.IsAdmin,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 客户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, customerID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, customerID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour); err != nil {
		return err
	}

	return nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Customer     CustomerInfo `json:"customer"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // Access Token过期时间（秒）
}

// CustomerInfo 客户信息
type CustomerInfo struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}
