package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：商品模块集成测试
//
// 测试场景覆盖：
// 1. 商品上架（需要管理员角色）
// 2. 商品列表查询（公开接口）
// 3. 分页、排序、搜索功能
// 4. 参数验证（价格范围、库存非负）

// TestProductCreate 测试商品上架功能
func TestProductCreate(t *testing.T) {
	adminToken := AdminToken(t)

	t.Run("正常上架商品", func(t *testing.T) {
		productReq := map[string]interface{}{
			"name":           "机械键盘",
			"brand":          "Keychron",
			"category":       "外设",
			"price":          50000, // 500.00元
			"count_in_stock": 100,
			"description":    "87键热插拔机械键盘",
		}

		resp := PostJSON(t, BaseURL+"/admin/products", productReq, adminToken)
		require.Equal(t, 0, resp.Code, "上架应该成功: %s", resp.Message)

		var data ProductData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析商品响应失败")

		assert.NotZero(t, data.ID, "商品ID应该大于0")
		assert.Equal(t, "机械键盘", data.Name)
		assert.Equal(t, int64(50000), data.Price)
		assert.Equal(t, "500.00", data.PriceYuan, "元格式金额应该是500.00")
		assert.Equal(t, 100, data.CountInStock)

		t.Logf("✓ 商品上架成功，ID: %d", data.ID)
	})

	t.Run("普通客户上架应被拒绝", func(t *testing.T) {
		_, customerToken := RegisterTestCustomer(t, "not_admin")

		productReq := map[string]interface{}{
			"name":           "越权商品",
			"price":          100,
			"count_in_stock": 1,
		}

		resp := PostJSON(t, BaseURL+"/admin/products", productReq, customerToken)
		assert.Equal(t, 40104, resp.Code, "非管理员应该返回40104")
	})

	t.Run("价格必须为正数", func(t *testing.T) {
		productReq := map[string]interface{}{
			"name":           "免费商品",
			"price":          0,
			"count_in_stock": 1,
		}

		resp := PostJSON(t, BaseURL+"/admin/products", productReq, adminToken)
		assert.NotEqual(t, 0, resp.Code, "价格为0应该被拒绝")
	})
}

// TestProductList 测试商品列表查询
func TestProductList(t *testing.T) {
	adminToken := AdminToken(t)

	// 准备两个可搜索的商品
	CreateTestProduct(t, adminToken, "列表测试键盘", 10)
	CreateTestProduct(t, adminToken, "列表测试鼠标", 10)

	t.Run("默认分页查询", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products", "")
		require.Equal(t, 0, resp.Code, "查询应该成功")

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析列表响应失败")

		assert.GreaterOrEqual(t, data.Total, int64(2), "至少应该有刚上架的2个商品")
		assert.Equal(t, 1, data.Page, "默认第1页")
	})

	t.Run("关键词搜索", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?keyword=列表测试键盘", "")
		require.Equal(t, 0, resp.Code)

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		require.NotEmpty(t, data.List, "搜索结果不应为空")
		for _, p := range data.List {
			assert.Contains(t, p.Name, "列表测试键盘")
		}
	})

	t.Run("按价格排序", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?sort_by=price_asc&page_size=50", "")
		require.Equal(t, 0, resp.Code)

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		for i := 1; i < len(data.List); i++ {
			assert.LessOrEqual(t, data.List[i-1].Price, data.List[i].Price,
				"price_asc应该按价格升序")
		}
	})
}

// TestProductGet 测试商品详情查询
func TestProductGet(t *testing.T) {
	adminToken := AdminToken(t)
	productID := CreateTestProduct(t, adminToken, "详情测试商品", 7)

	t.Run("查询存在的商品", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/products/%d", BaseURL, productID), "")
		require.Equal(t, 0, resp.Code)

		var data ProductData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.Equal(t, productID, data.ID)
		assert.Equal(t, 7, data.CountInStock)
	})

	t.Run("查询不存在的商品", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products/99999999", "")
		assert.Equal(t, 40402, resp.Code, "不存在的商品应该返回40402")
	})
}
