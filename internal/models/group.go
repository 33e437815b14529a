package models

// Group is a chat registered with the bot by an admin.
type Group struct {
	ChatID int64 `gorm:"primaryKey;autoIncrement:false"`
}
