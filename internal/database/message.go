package database

import (
	"context"

	"github.com/thereayou/chatbot-api/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return translate(d.db.WithContext(ctx).Create(message).Error)
}

func (d *Database) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// ListMessages возвращает страницу сообщений в порядке вставки
func (d *Database) ListMessages(ctx context.Context, offset, limit int) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := d.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}
	return messages, nil
}

func (d *Database) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Message{}).Count(&count).Error
	return count, translate(err)
}

// UpdateMessageContent меняет только content, id и sender остаются прежними
func (d *Database) UpdateMessageContent(ctx context.Context, id uint, content string) (*models.Message, error) {
	var message models.Message
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&message).Update("content", content).Error; err != nil {
			return err
		}
		message.Content = content
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// DeleteMessage удаляет сообщение и возвращает его состояние до удаления
func (d *Database) DeleteMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, message.ID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &message, nil
}
