package commands

import (
	"strings"
	"testing"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

func TestDispatchIgnoresPlainChat(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "just talking")
	if got := replies(t, s); len(got) != 0 {
		t.Fatalf("plain chat produced replies: %v", got)
	}
}

func TestDispatchUnknownCommandSingleReply(t *testing.T) {
	h, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!frobnicate --hard")
	got := replies(t, s)
	if len(got) != 1 || got[0] != unknownReply {
		t.Fatalf("replies = %v", got)
	}
	homes, worlds := h.Cache().Stats(world.Lobby)
	if homes != 0 || worlds != 0 {
		t.Fatal("unknown command must not modify the document")
	}
}

func TestDispatchParseErrorReply(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, `!home create "unterminated`)
	got := replies(t, s)
	if len(got) != 1 || got[0] != parseReply {
		t.Fatalf("replies = %v", got)
	}
}

func TestDispatchGuardsBotSelfMessages(t *testing.T) {
	h, s, _ := newTestBot(t, "alice")
	asBot := hub.NewBotContext(h, world.Lobby, h.BotName(), s.SID())
	Dispatch(asBot, "!users")
	if got := replies(t, s); len(got) != 0 {
		t.Fatalf("bot self-message produced replies: %v", got)
	}
}

func TestDispatchBatchRunsEachSegment(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!users • !users")
	got := replies(t, s)
	if len(got) != 2 {
		t.Fatalf("batch of 2 produced %d replies: %v", len(got), got)
	}
}

func TestDispatchBatchIsBounded(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	segments := make([]string, 12)
	for i := range segments {
		segments[i] = "!users"
	}
	Dispatch(bot, strings.Join(segments, " • "))
	got := replies(t, s)
	if len(got) != maxBatchSegments {
		t.Fatalf("batch of 12 produced %d replies, want %d", len(got), maxBatchSegments)
	}
}

func TestDispatchCaseInsensitiveNames(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!USERS")
	got := replies(t, s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "Online users") {
		t.Fatalf("replies = %v", got)
	}
}
