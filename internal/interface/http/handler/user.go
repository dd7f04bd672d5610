package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/duc135790/smartstore/internal/application/user"
	"github.com/duc135790/smartstore/internal/interface/http/dto"
	"github.com/duc135790/smartstore/internal/interface/http/middleware"
	"github.com/duc135790/smartstore/pkg/response"
)

// UserHandler 客户账户HTTP处理器
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
}

// NewUserHandler 创建账户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Register 客户注册
// @Summary      客户注册
// @Description  邮箱+密码注册新客户
// @Tags         账户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.CustomerResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误/密码强度不足"
// @Failure      409 {object} response.Response "邮箱已被注册"
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CustomerResponse{
		ID:    result.ID,
		Email: result.Email,
		Name:  result.Name,
	})
}

// Login 客户登录
// @Summary      客户登录
// @Description  邮箱+密码登录，返回JWT Token对
// @Tags         账户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功，返回token"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 客户登出
// @Summary      客户登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         账户模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	customerID := middleware.MustGetCustomerID(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), customerID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
