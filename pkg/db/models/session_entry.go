package models

import "time"

// SessionEntry persists one field of the shopper identity (token, username, balance).
type SessionEntry struct {
	Key       string    `gorm:"column:name;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (SessionEntry) TableName() string {
	return "session_entries"
}
