package commands

import (
	"strings"
	"testing"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

func TestWorldClaimSetsOwnerOnce(t *testing.T) {
	h, s, alice := newTestBot(t, "alice")
	Dispatch(alice, "!world claim")
	got := replies(t, s)
	if len(got) != 1 || got[0] != "@alice claimed #lobby as owner." {
		t.Fatalf("replies = %v", got)
	}
	viewDoc(h, func(doc *world.Document) {
		if doc.Roles.Owner != "alice" {
			t.Fatalf("owner = %q", doc.Roles.Owner)
		}
	})

	bob := hub.NewBotContext(h, world.Lobby, "bob", s.SID())
	Dispatch(bob, "!claim")
	got = replies(t, s)
	if len(got) != 1 || got[0] != "Owner already set: @alice." {
		t.Fatalf("replies = %v", got)
	}
}

func TestWorldHelperRoster(t *testing.T) {
	h, s, alice := newTestBot(t, "alice")
	Dispatch(alice, "!world claim")
	drainOutbox(s)

	bob := hub.NewBotContext(h, world.Lobby, "bob", s.SID())
	Dispatch(bob, "!world addhelper @carol")
	got := replies(t, s)
	if len(got) != 1 || got[0] != "Only the world owner can add helpers." {
		t.Fatalf("replies = %v", got)
	}

	Dispatch(alice, "!world addhelper @carol")
	got = replies(t, s)
	if len(got) != 1 || got[0] != "Added helper @carol." {
		t.Fatalf("replies = %v", got)
	}
	Dispatch(alice, "!world addhelper @CAROL")
	drainOutbox(s)
	viewDoc(h, func(doc *world.Document) {
		if len(doc.Roles.Helpers) != 1 {
			t.Fatalf("helpers = %v, want dedupe", doc.Roles.Helpers)
		}
	})

	Dispatch(alice, "!owners")
	got = replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "@alice") || !strings.Contains(got[0], "@carol") {
		t.Fatalf("replies = %v", got)
	}

	Dispatch(alice, "!world delhelper carol")
	got = replies(t, s)
	if len(got) != 1 || got[0] != "Removed helper @carol." {
		t.Fatalf("replies = %v", got)
	}
	viewDoc(h, func(doc *world.Document) {
		if len(doc.Roles.Helpers) != 0 {
			t.Fatalf("helpers = %v", doc.Roles.Helpers)
		}
	})
}

func TestWorldAddHelperRequiresOwnerFirst(t *testing.T) {
	_, s, alice := newTestBot(t, "alice")
	Dispatch(alice, "!world addhelper @carol")
	got := replies(t, s)
	if len(got) != 1 || got[0] != "No owner set yet. Use !world claim first." {
		t.Fatalf("replies = %v", got)
	}
}
