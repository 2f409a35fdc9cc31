package world

import (
	"testing"
	"time"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want Key
		ok   bool
	}{
		{"#lobby", "#lobby", true},
		{"lobby", "#lobby", true},
		{"  witness-hall  ", "#witness-hall", true},
		{"#", "", false},
		{"   ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeKey(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeKey(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRepairHomePointersIsIdempotent(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.Homes["11111111"] = &Home{ID: "11111111", Name: "First"}
	doc.Homes["22222222"] = &Home{ID: "22222222", Name: "Second"}
	doc.DefaultHomeID = "99999999"
	doc.SelectedHomes["@alice"] = "99999999"
	doc.SelectedHomes["@bob"] = "22222222"

	if !doc.RepairHomePointers() {
		t.Fatal("expected first repair to report changes")
	}
	if doc.DefaultHomeID != "11111111" {
		t.Fatalf("default repointed to %q, want first home id", doc.DefaultHomeID)
	}
	if doc.SelectedHomes["@alice"] != "11111111" {
		t.Fatalf("alice's selection = %q, want default", doc.SelectedHomes["@alice"])
	}
	if doc.SelectedHomes["@bob"] != "22222222" {
		t.Fatalf("bob's valid selection was disturbed: %q", doc.SelectedHomes["@bob"])
	}
	if doc.RepairHomePointers() {
		t.Fatal("second repair should be a no-op")
	}
}

func TestRepairClearsSelectionsWhenEmpty(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.SelectedHomes["@alice"] = "gone"
	if !doc.RepairHomePointers() {
		t.Fatal("expected repair to report changes")
	}
	if _, ok := doc.SelectedHomes["@alice"]; ok {
		t.Fatal("dangling selection should be deleted when no homes exist")
	}
}

func TestNormalizeFoldsLegacyHomes(t *testing.T) {
	doc := &Document{
		LegacyHomes: map[string][]*Home{
			"@alice": {{ID: "abc12345", Name: "Old Cabin"}},
		},
	}
	doc.Normalize(Lobby)
	home, ok := doc.Homes["abc12345"]
	if !ok {
		t.Fatal("legacy home was not folded into the directory")
	}
	if home.CreatedBy != "@alice" {
		t.Fatalf("CreatedBy = %q, want owner key", home.CreatedBy)
	}
	if doc.LegacyHomes != nil {
		t.Fatal("legacy map should be cleared after folding")
	}
	if doc.DefaultHomeID != "abc12345" {
		t.Fatalf("default = %q, want folded home", doc.DefaultHomeID)
	}
}

func TestAddDoorCreatesEndpointsAndRejectsDuplicates(t *testing.T) {
	home := &Home{ID: "h1", Name: "Test"}
	if !home.AddDoor("Foyer", "Library", "archway") {
		t.Fatal("first door should be added")
	}
	if len(home.Rooms) != 2 {
		t.Fatalf("rooms = %d, want both endpoints auto-created", len(home.Rooms))
	}
	if home.AddDoor("foyer", "LIBRARY", "oak") {
		t.Fatal("duplicate (from, to) pair should be rejected case-insensitively")
	}
	if !home.AddDoor("Library", "Foyer", "oak") {
		t.Fatal("reverse direction is a distinct door")
	}
	if len(home.Rooms) != 2 {
		t.Fatalf("rooms = %d, reverse door should not create rooms", len(home.Rooms))
	}
}

func TestAddHomeSelectsForCreator(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.AddHome(&Home{ID: "h1", Name: "First", CreatedBy: "Alice"})
	if doc.DefaultHomeID != "h1" {
		t.Fatalf("default = %q, want first home", doc.DefaultHomeID)
	}
	if id, ok := doc.SelectedHomeID("alice"); !ok || id != "h1" {
		t.Fatalf("creator selection = (%q, %v), want h1", id, ok)
	}

	doc.AddHome(&Home{ID: "h2", Name: "Second", CreatedBy: "Bob"})
	if doc.DefaultHomeID != "h1" {
		t.Fatal("default should not move once set")
	}
	if id, _ := doc.SelectedHomeID("bob"); id != "h2" {
		t.Fatalf("bob's selection = %q, want h2", id)
	}
}

func TestRemoveHomeRepointsSelections(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.AddHome(&Home{ID: "h1", CreatedBy: "alice"})
	doc.AddHome(&Home{ID: "h2", CreatedBy: "bob"})
	doc.DefaultHomeID = "h2"

	doc.RemoveHome("h2")
	if doc.DefaultHomeID != "h1" {
		t.Fatalf("default = %q, want surviving home", doc.DefaultHomeID)
	}
	if id, _ := doc.SelectedHomeID("bob"); id != "h1" {
		t.Fatalf("bob's selection = %q, want repointed to default", id)
	}
}

func TestCanDeleteHome(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.Roles = Roles{Owner: "@carol", Helpers: []string{"@dave"}}
	home := &Home{ID: "h1", CreatedBy: "Alice"}

	cases := []struct {
		user string
		want bool
	}{
		{"alice", true},
		{"ALICE", true},
		{"@carol", true},
		{"@dave", true},
		{"mallory", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := doc.CanDeleteHome(tc.user, home); got != tc.want {
			t.Errorf("CanDeleteHome(%q) = %v, want %v", tc.user, got, tc.want)
		}
	}
}

func TestActiveHomeSynthesizesDefault(t *testing.T) {
	doc := NewDocument("#witness-hall")
	home := doc.ActiveHome("#witness-hall", "alice")
	if home == nil {
		t.Fatal("active home should never be nil")
	}
	if home.Name != "World Home" {
		t.Fatalf("synthesized name = %q", home.Name)
	}
	if doc.DefaultHomeID != home.ID {
		t.Fatal("synthesized home should become the default")
	}
	again := doc.ActiveHome("#witness-hall", "alice")
	if again.ID != home.ID {
		t.Fatal("second resolution should return the same home")
	}
}

func TestFreshHomeIDAvoidsCollisions(t *testing.T) {
	doc := NewDocument(Lobby)
	now := time.Now().UTC()
	first := doc.FreshHomeID(now)
	doc.Homes[first] = &Home{ID: first}
	second := doc.FreshHomeID(now)
	if first == second {
		t.Fatalf("expected distinct ids, both %q", first)
	}
	if len(first) != 8 || len(second) != 8 {
		t.Fatalf("ids should be 8 digits: %q, %q", first, second)
	}
}

func TestFindWorldByIDAndName(t *testing.T) {
	doc := NewDocument(Lobby)
	doc.Worlds["w1"] = &WorldInfo{Name: "Ryoko World"}
	if id, ok := doc.FindWorld("w1"); !ok || id != "w1" {
		t.Fatalf("FindWorld by id = (%q, %v)", id, ok)
	}
	if id, ok := doc.FindWorld("ryoko world"); !ok || id != "w1" {
		t.Fatalf("FindWorld by name = (%q, %v)", id, ok)
	}
	if _, ok := doc.FindWorld("atlantis"); ok {
		t.Fatal("unknown world should not resolve")
	}
}
