package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行前提：
// 1. API服务已在localhost:8080启动（依赖MySQL/Redis/RabbitMQ）
// 2. 数据库中存在一个管理员账号（见AdminToken的环境变量说明）

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginData 登录响应数据
type LoginData struct {
	Customer struct {
		ID      uint   `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		IsAdmin bool   `json:"is_admin"`
	} `json:"customer"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Price        int64  `json:"price"`
	PriceYuan    string `json:"price_yuan"`
	CountInStock int    `json:"count_in_stock"`
}

// ProductListData 商品列表响应数据
type ProductListData struct {
	List  []ProductData `json:"list"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// CartData 购物车响应数据
type CartData struct {
	Items []struct {
		ProductID uint   `json:"product_id"`
		Name      string `json:"name"`
		Price     int64  `json:"price"`
		Quantity  int    `json:"quantity"`
		Subtotal  int64  `json:"subtotal"`
	} `json:"items"`
	TotalPrice int64  `json:"total_price"`
	TotalYuan  string `json:"total_yuan"`
}

// OrderData 订单响应数据
type OrderData struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	TotalPrice int64  `json:"total_price"`
	TotalYuan  string `json:"total_yuan"`
	Status     int    `json:"status"`
	StatusText string `json:"status_text"`
	Items      []struct {
		ProductID uint  `json:"product_id"`
		Quantity  int   `json:"quantity"`
		Price     int64 `json:"price"`
	} `json:"items"`
}

// OrderListData 订单列表响应数据
type OrderListData struct {
	List  []OrderData `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// doJSON 发送携带JSON体的请求并解析响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPut, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodGet, url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用纳秒时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// RegisterTestCustomer 注册测试客户并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestCustomer(t *testing.T, name string) (email string, token string) {
	t.Helper()

	// 1. 注册
	email = GenerateTestEmail(name)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"name":     name,
	}

	registerResp := PostJSON(t, BaseURL+"/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 登录
	return email, LoginTestCustomer(t, email, "Test1234")
}

// LoginTestCustomer 登录并返回AccessToken
func LoginTestCustomer(t *testing.T, email, password string) string {
	t.Helper()

	loginReq := map[string]string{
		"email":    email,
		"password": password,
	}

	loginResp := PostJSON(t, BaseURL+"/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// AdminToken 登录管理员账号并返回Token
//
// 教学说明：
// 商品上架、订单发货等接口需要管理员角色（is_admin=1）。
// 角色只能在数据库侧授予，所以集成测试依赖一个预置的管理员账号：
//
//	INSERT INTO customers (email, password, name, is_admin, created_at, updated_at)
//	VALUES ('admin@smartstore.dev', '<bcrypt of Admin1234>', '管理员', 1, NOW(), NOW());
//
// 可通过环境变量覆盖默认账号：
//
//	SMARTSTORE_TEST_ADMIN_EMAIL / SMARTSTORE_TEST_ADMIN_PASSWORD
//
// 管理员登录失败时跳过测试而非失败，让纯买家侧的测试可以独立运行
func AdminToken(t *testing.T) string {
	t.Helper()

	email := os.Getenv("SMARTSTORE_TEST_ADMIN_EMAIL")
	if email == "" {
		email = "admin@smartstore.dev"
	}
	password := os.Getenv("SMARTSTORE_TEST_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin1234"
	}

	loginReq := map[string]string{"email": email, "password": password}
	loginResp := PostJSON(t, BaseURL+"/login", loginReq, "")
	if loginResp.Code != 0 {
		t.Skipf("管理员账号不可用(%s)，跳过需要管理员的测试", loginResp.Message)
	}

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析管理员登录响应失败")
	require.True(t, loginData.Customer.IsAdmin, "测试账号不是管理员")

	return loginData.AccessToken
}

// CreateTestProduct 上架测试商品并返回商品ID
//
// 价格固定为500.00元，方便订单金额断言
func CreateTestProduct(t *testing.T, adminToken string, name string, stock int) uint {
	t.Helper()

	productReq := map[string]interface{}{
		"name":           name,
		"brand":          "测试品牌",
		"category":       "集成测试",
		"price":          50000, // 500.00元
		"count_in_stock": stock,
		"description":    "集成测试用商品",
	}

	productResp := PostJSON(t, BaseURL+"/admin/products", productReq, adminToken)
	require.Equal(t, 0, productResp.Code, "商品上架失败: %s", productResp.Message)

	var productData ProductData
	err := json.Unmarshal(productResp.Data, &productData)
	require.NoError(t, err, "解析商品响应失败")

	return productData.ID
}

// AddToCart 向购物车添加商品
func AddToCart(t *testing.T, token string, productID uint, quantity int) {
	t.Helper()

	addReq := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
	addResp := PostJSON(t, BaseURL+"/cart/items", addReq, token)
	require.Equal(t, 0, addResp.Code, "加入购物车失败: %s", addResp.Message)
}

// GetProductStock 查询商品当前库存
func GetProductStock(t *testing.T, productID uint) int {
	t.Helper()

	resp := GetJSON(t, fmt.Sprintf("%s/products/%d", BaseURL, productID), "")
	require.Equal(t, 0, resp.Code, "查询商品失败: %s", resp.Message)

	var productData ProductData
	err := json.Unmarshal(resp.Data, &productData)
	require.NoError(t, err, "解析商品响应失败")

	return productData.CountInStock
}

// ValidShipping 返回一份合法的收货信息
func ValidShipping(totalPrice int64) map[string]interface{} {
	return map[string]interface{}{
		"address":     "科技路100号",
		"city":        "深圳",
		"phone":       "13800138000",
		"total_price": totalPrice,
	}
}
