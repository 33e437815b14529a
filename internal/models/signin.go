package models

// SignInRecord holds one sign-in per user per calendar date. SignDate is the
// date in YYYY-MM-DD form; the composite key makes daily sign-in idempotent.
type SignInRecord struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false"`
	SignDate   string `gorm:"primaryKey;size:10"`
	Timestamp  int64  `gorm:"not null"`
}
