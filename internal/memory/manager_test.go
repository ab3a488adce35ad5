package memory

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

func TestManager_SaveAndTranscript(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(NewInMemoryStore())

	got, err := m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if got != noHistory {
		t.Errorf("empty transcript = %q; want %q", got, noHistory)
	}

	if err := m.SaveMessage(ctx, "s1", message(models.RoleUser, "any deals?", 1)); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveMessage(ctx, "s1", message(models.RoleAssistant, "Yes, three.", 2)); err != nil {
		t.Fatal(err)
	}

	got, err = m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if want := "User: any deals?\nAssistant: Yes, three.\n"; got != want {
		t.Errorf("Transcript = %q; want %q", got, want)
	}

	history, err := m.History(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[1].Content != "Yes, three." {
		t.Errorf("History = %+v", history)
	}
}

func TestManager_LoadsExistingSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()
	_ = store.SaveMessage(ctx, "s1", "u", message(models.RoleUser, "hello", 1))
	_ = store.SaveMessage(ctx, "s1", "u", message("system", "ignored", 2))

	m := NewManager(store)
	got, err := m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if want := "User: hello\n"; got != want {
		t.Errorf("Transcript = %q; want %q", got, want)
	}
	if m.ActiveSessionCount() != 1 {
		t.Errorf("ActiveSessionCount = %d; want 1", m.ActiveSessionCount())
	}
}

func TestManager_ReplaceHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(NewInMemoryStore())
	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "old", 1))

	history := []models.ChatMessage{
		message(models.RoleUser, "new question", 2),
		message(models.RoleAssistant, "new answer", 3),
	}
	if err := m.ReplaceHistory(ctx, "s1", history); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}

	got, _ := m.Transcript(ctx, "s1")
	if want := "User: new question\nAssistant: new answer\n"; got != want {
		t.Errorf("Transcript = %q; want %q", got, want)
	}

	stored, _ := m.History(ctx, "s1")
	if len(stored) != 2 || stored[0].Content != "new question" {
		t.Errorf("stored = %+v; want the replacement history", stored)
	}

	// later turns append to the replacement, not to the old history
	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "follow up", 4))
	stored, _ = m.History(ctx, "s1")
	got, _ = m.Transcript(ctx, "s1")
	if len(stored) != 3 || stored[2].Content != "follow up" {
		t.Errorf("stored = %+v", stored)
	}
	if want := "User: new question\nAssistant: new answer\nUser: follow up\n"; got != want {
		t.Errorf("Transcript = %q; want %q", got, want)
	}
}

func TestManager_DropsExpiredSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)
	m := NewManager(store)

	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "hi", 1))
	if got, _ := m.Transcript(ctx, "s1"); got != "User: hi\n" {
		t.Fatalf("Transcript = %q", got)
	}

	mr.FastForward(2 * time.Minute)
	got, err := m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got != noHistory {
		t.Errorf("Transcript after expiry = %q; want %q", got, noHistory)
	}

	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "back again", 2))
	if got, _ := m.Transcript(ctx, "s1"); got != "User: back again\n" {
		t.Errorf("Transcript = %q; want only the new message", got)
	}
}

func TestManager_UpdateActivityAndPing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)
	m := NewManager(store)

	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "hi", 1))
	mr.FastForward(50 * time.Second)
	if err := m.UpdateActivity(ctx, "s1"); err != nil {
		t.Fatalf("UpdateActivity: %v", err)
	}
	if ttl := mr.TTL("session:s1"); ttl != time.Minute {
		t.Errorf("TTL = %v; want refreshed to 1m", ttl)
	}

	if err := m.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := NewManager(NewInMemoryStore()).Ping(ctx); err != nil {
		t.Errorf("in-memory Ping: %v", err)
	}
}

func TestManager_ClearSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(NewInMemoryStore())
	_ = m.SaveMessage(ctx, "s1", message(models.RoleUser, "hi", 1))

	if err := m.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if history, _ := m.History(ctx, "s1"); len(history) != 0 {
		t.Errorf("History after clear = %+v", history)
	}
	if m.ActiveSessionCount() != 0 {
		t.Errorf("ActiveSessionCount = %d; want 0", m.ActiveSessionCount())
	}
}

func TestInMemoryStore_LoadReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewInMemoryStore()
	_ = s.SaveMessage(ctx, "s1", "u", message(models.RoleUser, "hi", 1))

	session, _ := s.LoadSession(ctx, "s1")
	session.Messages[0].Content = "mutated"

	msgs, _ := s.GetMessages(ctx, "s1")
	if msgs[0].Content != "hi" {
		t.Errorf("store shares message storage with callers")
	}
}
