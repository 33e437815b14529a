package models

// Button is an operator-managed inline button definition. Managed via CRUD
// only; the dispatch loop does not read these.
type Button struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:64;not null"`
	Title       string `gorm:"size:255;not null"`
	Data        string `gorm:"size:512;not null"`
	CommandType string `gorm:"size:64;not null"`
}
