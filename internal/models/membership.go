package models

// GroupMembership records that a user was seen joining a chat.
type GroupMembership struct {
	TelegramID int64 `gorm:"primaryKey;autoIncrement:false"`
	ChatID     int64 `gorm:"primaryKey;autoIncrement:false"`
}
