package order

import (
	"testing"
	"time"
)

func newTestOrder() *Order {
	return NewOrder(
		GenerateOrderNo(),
		42,
		[]Item{
			{ProductID: 1, Name: "iPhone 15", Quantity: 2, Price: 599900},
			{ProductID: 2, Name: "AirPods Pro", Quantity: 1, Price: 189900},
		},
		ShippingAddress{Address: "123 Nguyen Hue", City: "Ho Chi Minh", Phone: "0901234567"},
		"",
		1389700,
	)
}

// TestNewOrder 测试订单工厂方法
func TestNewOrder(t *testing.T) {
	o := newTestOrder()

	if o.Status != StatusProcessing {
		t.Errorf("新订单初始状态应为处理中, 实际%s", o.Status)
	}
	if o.IsPaid || o.IsDelivered {
		t.Error("新订单不应已支付或已送达")
	}
	// 支付方式为空时默认货到付款
	if o.PaymentMethod != PaymentMethodCOD {
		t.Errorf("默认支付方式应为COD, 实际%s", o.PaymentMethod)
	}
	if got := o.CalculateTotal(); got != 1389700 {
		t.Errorf("明细总金额计算错误: expected=1389700, got=%d", got)
	}
}

// TestOrder_TransitionTo_Forward 测试正常单调流转
func TestOrder_TransitionTo_Forward(t *testing.T) {
	o := newTestOrder()

	steps := []Status{StatusConfirmed, StatusShipping, StatusDelivered}
	for _, target := range steps {
		if err := o.TransitionTo(target); err != nil {
			t.Fatalf("流转到%s失败: %v", target, err)
		}
	}

	if !o.IsDelivered || o.DeliveredAt == nil {
		t.Error("送达后应设置送达标志和时间戳")
	}
	if time.Since(*o.DeliveredAt) > time.Minute {
		t.Error("送达时间戳不正确")
	}
}

// TestOrder_TransitionTo_SkipForward 测试允许跳步向前
func TestOrder_TransitionTo_SkipForward(t *testing.T) {
	o := newTestOrder()

	// 处理中直接到配送中(跳过已确认)
	if err := o.TransitionTo(StatusShipping); err != nil {
		t.Fatalf("跳步向前应被允许: %v", err)
	}
}

// TestOrder_TransitionTo_Backward 测试禁止回退
func TestOrder_TransitionTo_Backward(t *testing.T) {
	o := newTestOrder()

	if err := o.TransitionTo(StatusShipping); err != nil {
		t.Fatal(err)
	}

	if err := o.TransitionTo(StatusConfirmed); err == nil {
		t.Error("状态回退应被拒绝")
	}
}

// TestOrder_TransitionTo_Terminal 测试终态无出边
func TestOrder_TransitionTo_Terminal(t *testing.T) {
	delivered := newTestOrder()
	if err := delivered.Deliver(); err != nil {
		t.Fatal(err)
	}

	for _, target := range []Status{StatusProcessing, StatusConfirmed, StatusShipping, StatusCancelled} {
		if err := delivered.TransitionTo(target); err == nil {
			t.Errorf("已送达订单不应允许流转到%s", target)
		}
	}

	cancelled := newTestOrder()
	if err := cancelled.Cancel(); err != nil {
		t.Fatal(err)
	}

	for _, target := range []Status{StatusConfirmed, StatusShipping, StatusDelivered} {
		if err := cancelled.TransitionTo(target); err == nil {
			t.Errorf("已取消订单不应允许流转到%s", target)
		}
	}
}

// TestOrder_Cancel 测试取消规则
func TestOrder_Cancel(t *testing.T) {
	t.Run("非终态均可取消", func(t *testing.T) {
		for _, status := range []Status{StatusProcessing, StatusConfirmed, StatusShipping} {
			o := newTestOrder()
			o.Status = status

			if err := o.Cancel(); err != nil {
				t.Errorf("状态%s的订单应可取消: %v", status, err)
			}
			if o.Status != StatusCancelled {
				t.Errorf("取消后状态应为已取消, 实际%s", o.Status)
			}
		}
	})

	t.Run("已送达不可取消", func(t *testing.T) {
		o := newTestOrder()
		if err := o.Deliver(); err != nil {
			t.Fatal(err)
		}

		if err := o.Cancel(); err != ErrOrderDelivered {
			t.Errorf("期望ErrOrderDelivered, 实际: %v", err)
		}
	})

	t.Run("重复取消被拒绝", func(t *testing.T) {
		o := newTestOrder()
		if err := o.Cancel(); err != nil {
			t.Fatal(err)
		}

		// 第二次取消必须失败(防止库存二次归还)
		if err := o.Cancel(); err != ErrOrderCancelled {
			t.Errorf("期望ErrOrderCancelled, 实际: %v", err)
		}
	})
}

// TestOrder_IsOwnedBy 测试归属校验
func TestOrder_IsOwnedBy(t *testing.T) {
	o := newTestOrder()

	if !o.IsOwnedBy(42) {
		t.Error("订单应属于客户42")
	}
	if o.IsOwnedBy(7) {
		t.Error("订单不应属于客户7")
	}
}

// TestOrder_MarkPaid 测试支付标记幂等
func TestOrder_MarkPaid(t *testing.T) {
	o := newTestOrder()

	o.MarkPaid()
	if !o.IsPaid || o.PaidAt == nil {
		t.Fatal("支付后应设置支付标志和时间戳")
	}

	first := *o.PaidAt
	o.MarkPaid()
	if !o.PaidAt.Equal(first) {
		t.Error("重复标记支付不应更新时间戳")
	}
}

// TestGenerateOrderNo 测试订单号格式
func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()

	if len(no) < 10 || no[:3] != "ORD" {
		t.Errorf("订单号格式错误: %s", no)
	}
}
