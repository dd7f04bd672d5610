package order

import (
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换(回退或未定义的状态值)
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeBusinessError, "订单状态不允许此操作")

	// ErrOrderTerminal 订单已处于终态
	ErrOrderTerminal = apperrors.ErrOrderTerminal

	// ErrOrderDelivered 订单已送达,不可取消
	ErrOrderDelivered = apperrors.New(apperrors.ErrCodeOrderDelivered, "订单已送达, 不可取消")

	// ErrOrderCancelled 订单已取消过
	ErrOrderCancelled = apperrors.New(apperrors.ErrCodeOrderCancelled, "订单已取消, 请勿重复操作")

	// ErrStatusConflict 状态条件写未命中(并发修改抢先落库)
	// 用例层捕获后重读最新状态再判定,一般不会透出到接口层
	ErrStatusConflict = apperrors.New(apperrors.ErrCodeStatusConflict, "订单状态已变更, 请重试")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车中没有商品")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
)
