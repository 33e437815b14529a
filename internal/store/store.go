// Package store owns all durable state. Every operation is an independent
// parameterized statement (or its own transaction where noted); callers never
// see engine errors — failures are logged here and reported as results.
package store

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"styx-bot/internal/models"
)

// ErrAlreadySignedIn reports a repeated sign-in for the same calendar date.
var ErrAlreadySignedIn = errors.New("already signed in today")

type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

func New(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// AddUser inserts the user if absent. A true result means the row exists now,
// not that it was created by this call.
func (s *Store) AddUser(id int64, name, handle string) bool {
	user := models.User{TelegramID: id, Name: name}
	if handle != "" {
		user.Handle = &handle
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error
	if err != nil {
		s.log.Error("AddUser failed", "telegram_id", id, "error", err)
		return false
	}
	return true
}

// CreditBalance adds amount to the user's balance, creating the row with
// that balance when the user is unknown.
func (s *Store) CreditBalance(id int64, amount int64) bool {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("balance + excluded.balance"),
		}),
	}).Create(&models.User{TelegramID: id, Balance: amount}).Error
	if err != nil {
		s.log.Error("CreditBalance failed", "telegram_id", id, "error", err)
		return false
	}
	return true
}

// DebitBalance subtracts amount only when the current balance covers it.
// The check and the write are one statement, so balances never go negative
// even under concurrent callers.
func (s *Store) DebitBalance(id int64, amount int64) bool {
	res := s.db.Model(&models.User{}).
		Where("telegram_id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		s.log.Error("DebitBalance failed", "telegram_id", id, "error", res.Error)
		return false
	}
	return res.RowsAffected == 1
}

// Balance returns the user's balance, or -1 when the user is unknown.
func (s *Store) Balance(id int64) int64 {
	var user models.User
	err := s.db.Select("balance").Where("telegram_id = ?", id).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("Balance query failed", "telegram_id", id, "error", err)
		}
		return -1
	}
	return user.Balance
}

// SignIn records today's sign-in. The insert and the (currently zero) bonus
// credit share one transaction; a repeat on the same date rolls back and
// returns ErrAlreadySignedIn.
func (s *Store) SignIn(id int64) error {
	now := time.Now()
	rec := models.SignInRecord{
		TelegramID: id,
		SignDate:   now.Format("2006-01-02"),
		Timestamp:  now.Unix(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadySignedIn
		}
		// Zero-amount credit; the hook for a future sign-in bonus.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance": gorm.Expr("balance + excluded.balance"),
			}),
		}).Create(&models.User{TelegramID: id, Balance: 0}).Error
	})
	if err != nil && !errors.Is(err, ErrAlreadySignedIn) {
		s.log.Error("SignIn failed", "telegram_id", id, "error", err)
	}
	return err
}

// SetInviter assigns the inviter only when none is set yet. The condition is
// part of the statement, so a second invite can never overwrite the first.
func (s *Store) SetInviter(id, inviterID int64) bool {
	res := s.db.Model(&models.User{}).
		Where("telegram_id = ? AND inviter_id IS NULL", id).
		Update("inviter_id", inviterID)
	if res.Error != nil {
		s.log.Error("SetInviter failed", "telegram_id", id, "error", res.Error)
		return false
	}
	return res.RowsAffected == 1
}

// GetInviter returns the inviter's ID, or 0 when no inviter is set. ID 0 is
// reserved; the platform never assigns it to accounts.
func (s *Store) GetInviter(id int64) int64 {
	var user models.User
	err := s.db.Select("inviter_id").Where("telegram_id = ?", id).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("GetInviter query failed", "telegram_id", id, "error", err)
		}
		return 0
	}
	if user.InviterID == nil {
		return 0
	}
	return *user.InviterID
}

// CountInvitees counts users whose inviter is the given ID.
func (s *Store) CountInvitees(id int64) int64 {
	var count int64
	err := s.db.Model(&models.User{}).Where("inviter_id = ?", id).Count(&count).Error
	if err != nil {
		s.log.Error("CountInvitees failed", "telegram_id", id, "error", err)
		return 0
	}
	return count
}

// UserIDByHandle resolves a handle to the platform ID.
func (s *Store) UserIDByHandle(handle string) (int64, bool) {
	var user models.User
	err := s.db.Select("telegram_id").Where("handle = ?", handle).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("UserIDByHandle query failed", "handle", handle, "error", err)
		}
		return 0, false
	}
	return user.TelegramID, true
}
