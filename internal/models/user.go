package models

import (
	"time"
)

// User caches the profile of the signed-in account.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Nickname  string `gorm:"size:120"`
	AvatarURL string `gorm:"size:512"`
}

// UserInfo is the projection the header renders.
type UserInfo struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}
