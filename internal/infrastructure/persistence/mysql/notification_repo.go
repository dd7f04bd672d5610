package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/duc135790/smartstore/internal/domain/notification"
)

// NotificationRepository 通知投递记录仓储的MySQL实现
// 教学要点:只追加的审计表,写入失败不影响订单主流程(调用方仅记日志)
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知记录仓储
func NewNotificationRepository(db *gorm.DB) notification.RecordRepository {
	return &NotificationRepository{db: db}
}

// Append 批量追加投递记录
func (r *NotificationRepository) Append(ctx context.Context, records []*notification.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]NotificationModel, 0, len(records))
	for _, rec := range records {
		models = append(models, NotificationModel{
			ID:        rec.ID,
			OrderID:   rec.OrderID,
			Channel:   string(rec.Channel),
			Event:     string(rec.Event),
			Status:    string(rec.Status),
			Recipient: rec.Recipient,
			Message:   rec.Message,
			Error:     rec.Error,
			CreatedAt: rec.CreatedAt,
		})
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("写入通知记录失败: %w", err)
	}

	return nil
}

// ListByOrderID 查询订单的投递记录
func (r *NotificationRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*notification.Record, error) {
	var models []NotificationModel

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("查询通知记录失败: %w", err)
	}

	records := make([]*notification.Record, 0, len(models))
	for i := range models {
		m := &models[i]
		records = append(records, &notification.Record{
			ID:        m.ID,
			OrderID:   m.OrderID,
			Channel:   notification.ChannelKind(m.Channel),
			Event:     notification.EventKind(m.Event),
			Status:    notification.DeliveryStatus(m.Status),
			Recipient: m.Recipient,
			Message:   m.Message,
			Error:     m.Error,
			CreatedAt: m.CreatedAt,
		})
	}

	return records, nil
}
