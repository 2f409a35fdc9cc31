package commands

import (
	"encoding/json"
	"testing"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

// newTestBot wires a hub over a temp store with one connected session joined
// to the lobby, returning a bot context speaking as that user.
func newTestBot(t *testing.T, user string) (*hub.Hub, *hub.Session, *hub.BotContext) {
	t.Helper()
	store, err := world.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	h := hub.New(hub.NewRegistry(), world.NewCache(store))
	s := hub.NewSession("sid-test")
	h.Connect(s)
	if _, ok := h.Registry().Join(s.SID(), user, nil, ""); !ok {
		t.Fatal("join failed")
	}
	drainOutbox(s)
	return h, s, hub.NewBotContext(h, world.Lobby, user, s.SID())
}

func drainOutbox(s *hub.Session) []hub.Envelope {
	var out []hub.Envelope
	for {
		select {
		case env := <-s.Outbox():
			out = append(out, env)
		default:
			return out
		}
	}
}

// replies returns the chat_message texts the session received, in order.
func replies(t *testing.T, s *hub.Session) []string {
	t.Helper()
	var out []string
	for _, env := range drainOutbox(s) {
		if env.Event != hub.EventChatMessage {
			continue
		}
		var msg hub.ChatMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			t.Fatalf("decode chat_message: %v", err)
		}
		out = append(out, msg.Msg)
	}
	return out
}

// viewDoc snapshots the lobby document under its lock.
func viewDoc(h *hub.Hub, fn func(*world.Document)) {
	h.Cache().View(world.Lobby, fn)
}
