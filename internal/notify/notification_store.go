package notify

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Data is the JSONB payload column of a notification.
type Data map[string]interface{}

func (d Data) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *Data) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("Data: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, d)
}

// Notification is a stored, user-facing message.
type Notification struct {
	gorm.Model
	UserID  uint       `json:"user_id" gorm:"index;not null"`
	Type    string     `json:"type" gorm:"index;not null"`
	Title   string     `json:"title" gorm:"not null"`
	Message string     `json:"message" gorm:"type:text"`
	Data    Data       `json:"data" gorm:"type:jsonb"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}

// GormNotifier persists notifications to the notifications table.
type GormNotifier struct {
	db *gorm.DB
}

func NewGormNotifier(db *gorm.DB) *GormNotifier {
	return &GormNotifier{db: db}
}

func (n *GormNotifier) Create(ctx context.Context, userID uint, kind, title, message string, data map[string]interface{}) error {
	return n.db.WithContext(ctx).Create(&Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    Data(data),
	}).Error
}
