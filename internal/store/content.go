package store

import (
	"styx-bot/internal/models"
)

// Button and advertisement CRUD. These rows are managed by operator tooling
// and are not read by the dispatch loop.

func (s *Store) AddButton(b *models.Button) bool {
	if err := s.db.Create(b).Error; err != nil {
		s.log.Error("AddButton failed", "error", err)
		return false
	}
	return true
}

func (s *Store) UpdateButton(b *models.Button) bool {
	res := s.db.Model(&models.Button{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"type":         b.Type,
			"title":        b.Title,
			"data":         b.Data,
			"command_type": b.CommandType,
		})
	if res.Error != nil {
		s.log.Error("UpdateButton failed", "id", b.ID, "error", res.Error)
		return false
	}
	return res.RowsAffected == 1
}

func (s *Store) RemoveButton(id uint) bool {
	if err := s.db.Delete(&models.Button{}, "id = ?", id).Error; err != nil {
		s.log.Error("RemoveButton failed", "id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) ListButtons() []models.Button {
	var buttons []models.Button
	if err := s.db.Find(&buttons).Error; err != nil {
		s.log.Error("ListButtons failed", "error", err)
		return nil
	}
	return buttons
}

func (s *Store) AddAd(ad *models.Advertisement) bool {
	if err := s.db.Create(ad).Error; err != nil {
		s.log.Error("AddAd failed", "error", err)
		return false
	}
	return true
}

func (s *Store) RemoveAd(id uint) bool {
	if err := s.db.Delete(&models.Advertisement{}, "id = ?", id).Error; err != nil {
		s.log.Error("RemoveAd failed", "id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) ListAds() []models.Advertisement {
	var ads []models.Advertisement
	if err := s.db.Find(&ads).Error; err != nil {
		s.log.Error("ListAds failed", "error", err)
		return nil
	}
	return ads
}
