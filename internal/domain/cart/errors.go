package cart

import (
	apperrors "github.com/duc135790/smartstore/pkg/errors"
)

var (
	// ErrCartItemNotFound 购物车中没有该商品
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "购物车中没有该商品")

	// ErrInvalidQuantity 数量必须为正数
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "商品数量必须大于0")
)
