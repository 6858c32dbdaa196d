package dbmysql

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"messageapi/internal/message"
)

// Message is the row stored in the messages table.
type Message struct {
	ID          string    `gorm:"primaryKey;type:char(36)"`
	Title       string    `gorm:"size:255;not null"`
	Body        string    `gorm:"type:text;not null"`
	CreatedDate time.Time `gorm:"type:datetime(3);not null;index:idx_messages_created_id,priority:1"`
	UpdatedDate time.Time `gorm:"type:datetime(3);not null"`
}

func (Message) TableName() string {
	return "messages"
}

func fromDomain(m *message.Message) *Message {
	return &Message{
		ID:          m.ID.String(),
		Title:       m.Title,
		Body:        m.Body,
		CreatedDate: m.CreatedDate.UTC(),
		UpdatedDate: m.UpdatedDate.UTC(),
	}
}

func (r *Message) toDomain() (*message.Message, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", r.ID, err)
	}
	return &message.Message{
		ID:          id,
		Title:       r.Title,
		Body:        r.Body,
		CreatedDate: r.CreatedDate.UTC(),
		UpdatedDate: r.UpdatedDate.UTC(),
	}, nil
}
