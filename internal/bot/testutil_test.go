package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mymmrac/telego"

	"styx-bot/internal/database"
	"styx-bot/internal/settings"
	"styx-bot/internal/store"
)

type sentMessage struct {
	ChatID int64
	Text   string
}

// fakeSender records outbound messages and serves a fixed bot identity.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
}

func (f *fakeSender) BotUsername(context.Context) (string, error) {
	return "StyxTestBot", nil
}

func (f *fakeSender) sentTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.sent {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// fakeSource replays scripted batches and records every requested offset.
type fakeSource struct {
	batches [][]telego.Update
	calls   int
	offsets []int
}

func (f *fakeSource) FetchUpdates(_ context.Context, offset int) ([]telego.Update, error) {
	f.offsets = append(f.offsets, offset)
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

func newTestEnv(t *testing.T, superAdminID int64) (*store.Store, *Executor, *fakeSender) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sets := settings.New(filepath.Join(t.TempDir(), "ConfigFile.json"), logger)
	if err := sets.EnsureDefaults(); err != nil {
		t.Fatalf("failed to prepare settings: %v", err)
	}

	st := store.New(db, logger)
	sender := &fakeSender{}
	exec := NewExecutor(st, sender, sets, superAdminID, logger)
	return st, exec, sender
}

func textMessage(updateID int, from, chat int64, handle, text string) telego.Update {
	return telego.Update{
		UpdateID: updateID,
		Message: &telego.Message{
			From: &telego.User{ID: from, FirstName: "user", Username: handle},
			Chat: telego.Chat{ID: chat},
			Text: text,
		},
	}
}

func joinEvent(updateID int, from, chat int64, handle string) telego.Update {
	return telego.Update{
		UpdateID: updateID,
		Message: &telego.Message{
			From:           &telego.User{ID: from, FirstName: "user", Username: handle},
			Chat:           telego.Chat{ID: chat},
			NewChatMembers: []telego.User{{ID: from, Username: handle}},
		},
	}
}

func leaveEvent(updateID int, from, chat int64, handle string) telego.Update {
	return telego.Update{
		UpdateID: updateID,
		Message: &telego.Message{
			From:           &telego.User{ID: from, FirstName: "user", Username: handle},
			Chat:           telego.Chat{ID: chat},
			LeftChatMember: &telego.User{ID: from, Username: handle},
		},
	}
}
