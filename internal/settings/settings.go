// Package settings is the persisted operator configuration: a small JSON
// document addressed by dot-separated key paths. It holds the values set
// from the command line (super-admin ID, bot token) and values changed at
// runtime by admin commands (invitation bonus).
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	KeyAdministratorID = "AdministratorIDCard"
	KeyBotToken        = "TelegramBotToken"
	KeyInvitationScore = "InvitationScore"
)

// DefaultInvitationScore is credited to an inviter per redeemed invite
// unless overridden through KeyInvitationScore.
const DefaultInvitationScore = 5

type Settings struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

func New(path string, log *slog.Logger) *Settings {
	return &Settings{path: path, log: log}
}

// EnsureDefaults creates the document with empty defaults when the file is
// missing or empty, so first-run operators get a template to fill in.
func (s *Settings) EnsureDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err == nil && len(data) > 0 && gjson.ValidBytes(data) {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	s.log.Warn("settings file missing or invalid, writing defaults", "path", s.path)
	doc := []byte("{}")
	doc, _ = sjson.SetBytes(doc, KeyAdministratorID, 0)
	doc, _ = sjson.SetBytes(doc, KeyBotToken, "")
	doc, _ = sjson.SetBytes(doc, KeyInvitationScore, DefaultInvitationScore)
	if err := os.WriteFile(s.path, doc, 0o600); err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	return nil
}

// Int64 reads an integer at the given dot-separated key path. The second
// result is false when the key is absent.
func (s *Settings) Int64(key string) (int64, bool) {
	res, ok := s.get(key)
	if !ok {
		return 0, false
	}
	return res.Int(), true
}

// String reads a string at the given dot-separated key path.
func (s *Settings) String(key string) (string, bool) {
	res, ok := s.get(key)
	if !ok {
		return "", false
	}
	return res.String(), true
}

func (s *Settings) get(key string) (gjson.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Error("failed to read settings file", "path", s.path, "error", err)
		return gjson.Result{}, false
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		s.log.Warn("settings key not found", "key", key)
		return gjson.Result{}, false
	}
	return res, true
}

// SetInt64 writes an integer at the given key path, creating intermediate
// objects as needed, and rewrites the document.
func (s *Settings) SetInt64(key string, value int64) error {
	return s.set(key, value)
}

// SetString writes a string at the given key path.
func (s *Settings) SetString(key, value string) error {
	return s.set(key, value)
}

func (s *Settings) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
		data = []byte("{}")
	}
	if len(data) == 0 || !gjson.ValidBytes(data) {
		data = []byte("{}")
	}

	data, err = sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
