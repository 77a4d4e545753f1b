package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one row of the flat key-value store backing client state.
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
