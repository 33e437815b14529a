package store

import (
	"gorm.io/gorm/clause"

	"styx-bot/internal/models"
)

func (s *Store) AddGroup(chatID int64) bool {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Group{ChatID: chatID}).Error
	if err != nil {
		s.log.Error("AddGroup failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

func (s *Store) RemoveGroup(chatID int64) bool {
	err := s.db.Delete(&models.Group{}, "chat_id = ?", chatID).Error
	if err != nil {
		s.log.Error("RemoveGroup failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

func (s *Store) IsGroup(chatID int64) bool {
	var count int64
	err := s.db.Model(&models.Group{}).Where("chat_id = ?", chatID).Count(&count).Error
	if err != nil {
		s.log.Error("IsGroup query failed", "chat_id", chatID, "error", err)
		return false
	}
	return count > 0
}

func (s *Store) ListGroups() []int64 {
	var ids []int64
	err := s.db.Model(&models.Group{}).Pluck("chat_id", &ids).Error
	if err != nil {
		s.log.Error("ListGroups failed", "error", err)
		return nil
	}
	return ids
}

// AddMembership records a user joining a chat. Replayed join events are
// absorbed by the composite key.
func (s *Store) AddMembership(userID, chatID int64) bool {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupMembership{TelegramID: userID, ChatID: chatID}).Error
	if err != nil {
		s.log.Error("AddMembership failed", "telegram_id", userID, "chat_id", chatID, "error", err)
		return false
	}
	return true
}

func (s *Store) IsMember(userID, chatID int64) bool {
	var count int64
	err := s.db.Model(&models.GroupMembership{}).
		Where("telegram_id = ? AND chat_id = ?", userID, chatID).Count(&count).Error
	if err != nil {
		s.log.Error("IsMember query failed", "telegram_id", userID, "chat_id", chatID, "error", err)
		return false
	}
	return count > 0
}

func (s *Store) RemoveMembership(userID, chatID int64) bool {
	err := s.db.Delete(&models.GroupMembership{},
		"telegram_id = ? AND chat_id = ?", userID, chatID).Error
	if err != nil {
		s.log.Error("RemoveMembership failed", "telegram_id", userID, "chat_id", chatID, "error", err)
		return false
	}
	return true
}
