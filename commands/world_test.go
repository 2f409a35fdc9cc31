package commands

import (
	"strings"
	"testing"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

func TestWorldCreateSetsActive(t *testing.T) {
	h, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!world create Ryoko-Delta --biome coast --factions 3")
	got := replies(t, s)
	if len(got) != 1 || got[0] != "World created: Ryoko-Delta (biome=coast, factions=3)" {
		t.Fatalf("replies = %v", got)
	}
	viewDoc(h, func(doc *world.Document) {
		id, w, ok := doc.ActiveWorld()
		if !ok {
			t.Fatal("created world should be active")
		}
		if w.Name != "Ryoko-Delta" || w.Biome != "coast" || w.Factions != 3 {
			t.Fatalf("world %s = %+v", id, w)
		}
	})
}

func TestWorldSelectByName(t *testing.T) {
	h, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!world create Alpha")
	Dispatch(bot, "!world create Beta")
	drainOutbox(s)

	Dispatch(bot, "!world select alpha")
	got := replies(t, s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "Active world set:") || !strings.Contains(got[0], "Alpha") {
		t.Fatalf("replies = %v", got)
	}
	viewDoc(h, func(doc *world.Document) {
		_, w, ok := doc.ActiveWorld()
		if !ok || w.Name != "Alpha" {
			t.Fatalf("active = %+v", w)
		}
	})
}

func TestWorldSelectUnknown(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!world select atlantis")
	got := replies(t, s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "World not found.") {
		t.Fatalf("replies = %v", got)
	}
}

func TestWorldListMarksActive(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!world create Alpha")
	Dispatch(bot, "!world create Beta")
	drainOutbox(s)

	Dispatch(bot, "!worlds")
	got := replies(t, s)
	if len(got) != 1 {
		t.Fatalf("replies = %v", got)
	}
	var activeLine string
	for _, line := range strings.Split(got[0], "\n") {
		if strings.HasPrefix(line, "*") {
			activeLine = line
		}
	}
	if !strings.Contains(activeLine, "Beta") {
		t.Fatalf("active marker on %q, want the latest world", activeLine)
	}
}

func TestBuildWorldAnchorsStats(t *testing.T) {
	h, s, bot := newTestBot(t, "alice")
	Dispatch(bot, `!build world --name "Ryoko World" --biome forest --style mixed --size large `+
		`--population "30,000" --home city "turnpoint" --weather cosmic --mood enlightened `+
		`--age_of_world "3.4" --health_of_planet "5.5"`)

	got := replies(t, s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "World built: Ryoko World") {
		t.Fatalf("replies = %v", got)
	}

	viewDoc(h, func(doc *world.Document) {
		_, w, ok := doc.ActiveWorld()
		if !ok {
			t.Fatal("built world should be active")
		}
		if w.HomeCity != "turnpoint" || w.Weather != "cosmic" || w.Mood != "enlightened" {
			t.Fatalf("world = %+v", w)
		}
		// Anchored values are jittered within known bounds.
		if w.Population < 21000 || w.Population > 40500 {
			t.Fatalf("population = %d, outside anchor jitter", w.Population)
		}
		if w.AgeBillionYears < 2.55 || w.AgeBillionYears > 4.25 {
			t.Fatalf("age = %v, outside anchor jitter", w.AgeBillionYears)
		}
		if w.PlanetHealth < 4.3 || w.PlanetHealth > 6.7 {
			t.Fatalf("health = %v, outside anchor jitter", w.PlanetHealth)
		}
		if w.Factions < 1 || w.Factions > 12 {
			t.Fatalf("factions = %d, outside clamp", w.Factions)
		}
	})
}

func TestBuildWorldDefaultsWithoutAnchors(t *testing.T) {
	h, _, bot := newTestBot(t, "alice")
	Dispatch(bot, `!build world --name "Bare"`)
	viewDoc(h, func(doc *world.Document) {
		_, w, ok := doc.ActiveWorld()
		if !ok {
			t.Fatal("world missing")
		}
		if w.Population <= 0 {
			t.Fatal("population should be generated")
		}
		if w.Factions < 1 || w.Factions > 12 {
			t.Fatalf("factions = %d", w.Factions)
		}
		if w.AgeBillionYears < 0.1 || w.AgeBillionYears > 14 {
			t.Fatalf("age = %v", w.AgeBillionYears)
		}
		if w.PlanetHealth < 0 || w.PlanetHealth > 10 {
			t.Fatalf("health = %v", w.PlanetHealth)
		}
		if w.Size != "medium" || w.Weather != "variable" {
			t.Fatalf("defaults = %+v", w)
		}
	})
}

func TestResetBlanksDocument(t *testing.T) {
	h, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!world create Alpha")
	Dispatch(bot, `!home create "Haven"`)
	drainOutbox(s)

	Dispatch(bot, "!reset")
	got := replies(t, s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "Reset complete.") {
		t.Fatalf("replies = %v", got)
	}
	homes, worlds := h.Cache().Stats(world.Lobby)
	if homes != 0 || worlds != 0 {
		t.Fatalf("after reset: homes=%d worlds=%d", homes, worlds)
	}
}

func TestHelpSubtopics(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!help")
	got := replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "Ghost Hub Bot Help") {
		t.Fatalf("replies = %v", got)
	}
	Dispatch(bot, "!help home")
	got = replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "Home Builder") {
		t.Fatalf("replies = %v", got)
	}
	Dispatch(bot, "!help world")
	got = replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "World Builder") {
		t.Fatalf("replies = %v", got)
	}
}

func TestHelpListsRegisteredCommands(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!help")
	got := replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "Registered:") {
		t.Fatalf("replies = %v", got)
	}
	for _, want := range []string{"!help", "!map", "!users", "!reset"} {
		if !strings.Contains(got[0], want) {
			t.Fatalf("command index missing %q:\n%s", want, got[0])
		}
	}
}

func TestHelpSingleCommandLookup(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!help users")
	got := replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "!users — list who is online") {
		t.Fatalf("replies = %v", got)
	}

	// Sigil-prefixed and aliased lookups resolve the same command.
	Dispatch(bot, "!help !owner")
	got = replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "!owners") {
		t.Fatalf("replies = %v", got)
	}

	// Unknown names fall back to the main help screen.
	Dispatch(bot, "!help bogus")
	got = replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "Ghost Hub Bot Help") {
		t.Fatalf("replies = %v", got)
	}
}

func TestStatusCountsRoomOccupancy(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, "!status")
	got := replies(t, s)
	if len(got) != 1 || !strings.Contains(got[0], "Online here: 1") {
		t.Fatalf("replies = %v", got)
	}
}

func TestMapShowsSnapshot(t *testing.T) {
	_, s, bot := newTestBot(t, "alice")
	Dispatch(bot, `!build world --name "Ryoko"`)
	Dispatch(bot, `!home build --name "Haven" --total_rooms 3`)
	drainOutbox(s)

	Dispatch(bot, "!map")
	got := replies(t, s)
	if len(got) != 1 {
		t.Fatalf("replies = %v", got)
	}
	for _, want := range []string{"== Active World ==", "Ryoko", "== Active Home ==", "Haven", "== Rooms ==", "== Doors =="} {
		if !strings.Contains(got[0], want) {
			t.Fatalf("map output missing %q:\n%s", want, got[0])
		}
	}
}
