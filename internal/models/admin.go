package models

// Admin is the extensible allow-list of privileged accounts, checked in
// addition to the single configured super-admin.
type Admin struct {
	TelegramID int64 `gorm:"primaryKey;autoIncrement:false"`
}
