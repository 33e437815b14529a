package store

import (
	"gorm.io/gorm/clause"

	"styx-bot/internal/models"
)

func (s *Store) AddAdmin(id int64) bool {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Admin{TelegramID: id}).Error
	if err != nil {
		s.log.Error("AddAdmin failed", "telegram_id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) RemoveAdmin(id int64) bool {
	err := s.db.Delete(&models.Admin{}, "telegram_id = ?", id).Error
	if err != nil {
		s.log.Error("RemoveAdmin failed", "telegram_id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) IsAdmin(id int64) bool {
	var count int64
	err := s.db.Model(&models.Admin{}).Where("telegram_id = ?", id).Count(&count).Error
	if err != nil {
		s.log.Error("IsAdmin query failed", "telegram_id", id, "error", err)
		return false
	}
	return count > 0
}

func (s *Store) ListAdmins() []int64 {
	var ids []int64
	err := s.db.Model(&models.Admin{}).Pluck("telegram_id", &ids).Error
	if err != nil {
		s.log.Error("ListAdmins failed", "error", err)
		return nil
	}
	return ids
}
