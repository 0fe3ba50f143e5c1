// Package outboxrepo persists pending notifications next to the state changes
// that produced them. Producers append inside the business transaction; the
// dispatcher job reads committed rows and stamps them once delivered.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/ports"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"gorm.io/gorm"
)

// MessageDTO represents the database structure for persisting outbox messages.
type MessageDTO struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	EventType    string     `gorm:""`
	Payload      string     `gorm:"type:jsonb"`
	CreatedAt    time.Time  `gorm:""`
	DispatchedAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox messages.
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add appends a message within the current transaction.
func (r *GormOutboxRepository) Add(ctx context.Context, eventType string, payload any) error {
	if eventType == "" {
		return errs.NewValueIsRequiredError("eventType")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	dto := MessageDTO{
		EventType: eventType,
		Payload:   string(raw),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPending retrieves up to limit undispatched messages in append order.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit must be positive")
	}

	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, ports.OutboxMessage{
			ID:        dto.ID,
			EventType: dto.EventType,
			Payload:   []byte(dto.Payload),
			CreatedAt: dto.CreatedAt,
		})
	}

	return messages, nil
}

// MarkDispatched stamps the message as delivered to the notifier.
func (r *GormOutboxRepository) MarkDispatched(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id = ?", id).
		Update("dispatched_at", &now)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outboxMessage", id)
	}

	return nil
}
