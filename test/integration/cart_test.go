package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：购物车模块集成测试
//
// 关键点：同一商品重复加购时数量合并（数据库唯一键 + ON DUPLICATE KEY UPDATE）

func getCart(t *testing.T, token string) CartData {
	t.Helper()

	resp := GetJSON(t, BaseURL+"/cart", token)
	require.Equal(t, 0, resp.Code, "查询购物车失败: %s", resp.Message)

	var data CartData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

// TestCartFlow 测试购物车增删改查完整流程
func TestCartFlow(t *testing.T) {
	adminToken := AdminToken(t)
	productID := CreateTestProduct(t, adminToken, "购物车测试商品", 100)
	_, token := RegisterTestCustomer(t, "cart_customer")

	t.Run("加入购物车", func(t *testing.T) {
		AddToCart(t, token, productID, 2)

		cart := getCart(t, token)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, int64(100000), cart.TotalPrice, "小计应该是500.00*2")
		assert.Equal(t, "1000.00", cart.TotalYuan)
	})

	t.Run("重复加购数量合并", func(t *testing.T) {
		AddToCart(t, token, productID, 3)

		cart := getCart(t, token)
		require.Len(t, cart.Items, 1, "同一商品不应该产生第二行")
		assert.Equal(t, 5, cart.Items[0].Quantity, "数量应该合并为2+3")
	})

	t.Run("修改数量", func(t *testing.T) {
		resp := PutJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, productID),
			map[string]int{"quantity": 1}, token)
		require.Equal(t, 0, resp.Code, "修改数量失败: %s", resp.Message)

		cart := getCart(t, token)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("移除商品", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, productID), token)
		require.Equal(t, 0, resp.Code, "移除失败: %s", resp.Message)

		cart := getCart(t, token)
		assert.Empty(t, cart.Items, "购物车应该为空")
		assert.Zero(t, cart.TotalPrice)
	})

	t.Run("移除不存在的行应失败", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, productID), token)
		assert.Equal(t, 40400, resp.Code, "不存在的购物车行应该返回40400")
	})

	t.Run("不存在的商品不可加购", func(t *testing.T) {
		addReq := map[string]interface{}{
			"product_id": 99999999,
			"quantity":   1,
		}
		resp := PostJSON(t, BaseURL+"/cart/items", addReq, token)
		assert.Equal(t, 40402, resp.Code, "不存在的商品应该返回40402")
	})
}
