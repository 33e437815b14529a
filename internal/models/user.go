package models

import (
	"time"
)

// User is a chat-platform account known to the bot. A row appears the first
// time the account is seen in any update, or when the account redeems an
// invite link via /start.
type User struct {
	ID         uint    `gorm:"primaryKey"`
	TelegramID int64   `gorm:"uniqueIndex;not null"`
	Name       string  `gorm:"size:255"`
	Handle     *string `gorm:"size:255;uniqueIndex"`
	Balance    int64   `gorm:"not null;default:0"`
	InviterID  *int64  `gorm:"index"`
	Violations int     `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
