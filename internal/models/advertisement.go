package models

// Advertisement is an operator-managed promo entry. CRUD only.
type Advertisement struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:255;not null"`
	URL   string `gorm:"size:512;not null"`
}
