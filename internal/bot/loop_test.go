package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mymmrac/telego"

	"styx-bot/internal/store"
)

func newLoopEnv(t *testing.T, source UpdateSource) (*Loop, *store.Store, *fakeSender) {
	t.Helper()
	st, exec, sender := newTestEnv(t, 999)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loop := NewLoop(source, st, exec, sender, nil, time.Second, logger)
	return loop, st, sender
}

func TestCursorStartsAtZeroAndAdvancesPastBatch(t *testing.T) {
	source := &fakeSource{batches: [][]telego.Update{
		{
			textMessage(10, 7, 7, "alice", "hello"),
			textMessage(12, 8, 8, "bob", "hi"),
		},
		{
			textMessage(13, 7, 7, "alice", "again"),
		},
	}}
	loop, _, _ := newLoopEnv(t, source)
	ctx := context.Background()

	loop.runOnce(ctx)
	loop.runOnce(ctx)
	loop.runOnce(ctx)

	want := []int{0, 13, 14}
	if len(source.offsets) != len(want) {
		t.Fatalf("expected %d fetches, got %d", len(want), len(source.offsets))
	}
	for i, off := range want {
		if source.offsets[i] != off {
			t.Fatalf("fetch %d: expected offset %d, got %d", i, off, source.offsets[i])
		}
	}
}

func TestEmptyBatchDoesNotAdvanceCursor(t *testing.T) {
	source := &fakeSource{}
	loop, _, _ := newLoopEnv(t, source)
	ctx := context.Background()

	loop.runOnce(ctx)
	loop.runOnce(ctx)

	if source.offsets[0] != 0 || source.offsets[1] != 0 {
		t.Fatalf("empty batches must not move the cursor, offsets=%v", source.offsets)
	}
}

func TestFetchErrorDoesNotAdvanceCursor(t *testing.T) {
	loop, _, _ := newLoopEnv(t, failingSource{})

	loop.runOnce(context.Background())
	if loop.cursor != 0 {
		t.Fatalf("fetch failure must leave the cursor at 0, got %d", loop.cursor)
	}
}

func TestReplayedBatchIsHarmless(t *testing.T) {
	batch := []telego.Update{
		joinEvent(20, 7, -100, "alice"),
		textMessage(21, 8, 8, "bob", "/start Invite_42"),
		textMessage(22, 9, 9, "carol", "/signin"),
	}
	source := &fakeSource{batches: [][]telego.Update{batch, batch}}
	loop, st, sender := newLoopEnv(t, source)
	ctx := context.Background()

	loop.runOnce(ctx)
	// Simulate at-least-once delivery: the same update IDs come back.
	loop.cursor = 0
	loop.runOnce(ctx)

	if !st.IsMember(7, -100) {
		t.Fatalf("expected membership row")
	}
	if got := st.Balance(42); got != 5 {
		t.Fatalf("invite bonus must be credited exactly once, got %d", got)
	}
	if got := st.GetInviter(8); got != 42 {
		t.Fatalf("expected inviter 42, got %d", got)
	}
	if got := len(sender.sentTo(42)); got != 1 {
		t.Fatalf("expected one inviter confirmation, got %d", got)
	}
}

func TestJoinInsertsMembershipAndWelcomes(t *testing.T) {
	source := &fakeSource{batches: [][]telego.Update{{joinEvent(30, 7, -100, "alice")}}}
	loop, st, sender := newLoopEnv(t, source)

	loop.runOnce(context.Background())

	if !st.IsMember(7, -100) {
		t.Fatalf("join must insert the membership row")
	}
	if got := len(sender.sentTo(-100)); got != 1 {
		t.Fatalf("expected one welcome reply, got %d", got)
	}
}

// A leave event replies but keeps the membership row; join and leave are
// intentionally asymmetric.
func TestLeaveKeepsMembershipRow(t *testing.T) {
	source := &fakeSource{batches: [][]telego.Update{
		{joinEvent(40, 7, -100, "alice")},
		{leaveEvent(41, 7, -100, "alice")},
	}}
	loop, st, sender := newLoopEnv(t, source)
	ctx := context.Background()

	loop.runOnce(ctx)
	loop.runOnce(ctx)

	if !st.IsMember(7, -100) {
		t.Fatalf("leave must not remove the membership row")
	}
	if got := len(sender.sentTo(-100)); got != 2 {
		t.Fatalf("expected welcome and farewell replies, got %d", got)
	}
}

func TestNonTextContentRegistersSender(t *testing.T) {
	sticker := telego.Update{
		UpdateID: 50,
		Message: &telego.Message{
			From:    &telego.User{ID: 7, FirstName: "user", Username: "alice"},
			Chat:    telego.Chat{ID: 7},
			Sticker: &telego.Sticker{},
		},
	}
	source := &fakeSource{batches: [][]telego.Update{{sticker}}}
	loop, st, sender := newLoopEnv(t, source)

	loop.runOnce(context.Background())

	if _, ok := st.UserIDByHandle("alice"); !ok {
		t.Fatalf("sender must be registered even for non-text content")
	}
	if got := len(sender.sent); got != 0 {
		t.Fatalf("sticker content must not produce a reply, got %d", got)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	st, exec, sender := newTestEnv(t, 999)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loop := NewLoop(&fakeSource{}, st, exec, sender, nil, time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

type failingSource struct{}

func (failingSource) FetchUpdates(context.Context, int) ([]telego.Update, error) {
	return nil, errors.New("transport down")
}
