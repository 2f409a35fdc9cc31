package world

import (
	"fmt"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreLoadMissingRoom(t *testing.T) {
	store := newTestStore(t)
	doc, ok, err := store.Load("#lobby")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || doc != nil {
		t.Fatal("missing room should report no record")
	}
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	doc := NewDocument(Lobby)
	doc.Roles = Roles{Owner: "@alice", Helpers: []string{"@bob"}}
	doc.AddHome(&Home{
		ID:        "h1",
		Name:      "Marble Haven",
		CreatedBy: "alice",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Rooms:     []HomeRoom{{Name: "Entry Foyer"}},
		Doors:     []Door{{From: "Entry Foyer", To: "Kitchen", Type: "archway"}},
	})
	doc.Worlds["w1"] = &WorldInfo{Name: "Ryoko World", Biome: "forest", Factions: 3}
	doc.ActiveWorldID = "w1"

	if err := store.Save(Lobby, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, ok, err := store.Load(Lobby)
	if err != nil || !ok {
		t.Fatalf("Load = (%v, %v)", ok, err)
	}
	if loaded.Roles.Owner != "@alice" {
		t.Fatalf("owner = %q", loaded.Roles.Owner)
	}
	home, ok := loaded.Homes["h1"]
	if !ok {
		t.Fatal("home missing after round trip")
	}
	if len(home.Doors) != 1 || home.Doors[0].Type != "archway" {
		t.Fatalf("doors = %+v", home.Doors)
	}
	if loaded.ActiveWorldID != "w1" || loaded.Worlds["w1"].Name != "Ryoko World" {
		t.Fatalf("world directory lost: %+v", loaded.Worlds)
	}
}

func TestFileStoreSaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	first := NewDocument(Lobby)
	first.AddHome(&Home{ID: "h1", CreatedBy: "alice"})
	if err := store.Save(Lobby, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := NewDocument(Lobby)
	if err := store.Save(Lobby, second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, _, err := store.Load(Lobby)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Homes) != 0 {
		t.Fatal("save should be a full replacement, not a merge")
	}
}

func TestFileStoreHistoryReturnsTail(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 10; i++ {
		err := store.AppendLog(Lobby, LogEntry{Sender: "alice", Msg: fmt.Sprintf("line %d", i)})
		if err != nil {
			t.Fatalf("AppendLog: %v", err)
		}
	}
	entries, err := store.History(Lobby, 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Msg != "line 7" || entries[2].Msg != "line 9" {
		t.Fatalf("tail = %q .. %q", entries[0].Msg, entries[2].Msg)
	}
}

func TestFileStorePrunesLogAtRetention(t *testing.T) {
	store := newTestStore(t)
	store.SetLogRetention(5)
	for i := 0; i < 12; i++ {
		err := store.AppendLog(Lobby, LogEntry{Sender: "alice", Msg: fmt.Sprintf("line %d", i)})
		if err != nil {
			t.Fatalf("AppendLog: %v", err)
		}
	}
	entries, err := store.History(Lobby, 100)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("retained = %d, want 5", len(entries))
	}
	if entries[len(entries)-1].Msg != "line 11" {
		t.Fatalf("newest = %q, want line 11", entries[len(entries)-1].Msg)
	}
}

func TestRoomFileNameSanitizes(t *testing.T) {
	cases := []struct {
		in   Key
		want string
	}{
		{"#lobby", "lobby"},
		{"#Witness-Hall", "witness-hall"},
		{"#weird room!", "weird_room_"},
		{"#", "room"},
	}
	for _, tc := range cases {
		if got := roomFileName(tc.in); got != tc.want {
			t.Errorf("roomFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
