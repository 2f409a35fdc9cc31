package hub

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestNodeRegistryRegisterAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	reg, err := OpenNodeRegistry(path)
	if err != nil {
		t.Fatalf("OpenNodeRegistry: %v", err)
	}

	if _, err := reg.Register("zeta", "relay", "http://zeta/relay", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rec, err := reg.Register("", "", "http://unknown", json.RawMessage(`{"v":1}`))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Node != "UNKNOWN-NODE" || rec.Service != "default" {
		t.Fatalf("defaults = %+v", rec)
	}
	if rec.LastSeen == "" {
		t.Fatal("last_seen should be stamped")
	}

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].Node != "UNKNOWN-NODE" || list[1].Node != "zeta" {
		t.Fatalf("order = %s, %s, want sorted by node", list[0].Node, list[1].Node)
	}
}

func TestNodeRegistryUpsertsSameService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	reg, err := OpenNodeRegistry(path)
	if err != nil {
		t.Fatalf("OpenNodeRegistry: %v", err)
	}
	reg.Register("alpha", "relay", "http://old", nil)
	reg.Register("alpha", "relay", "http://new", nil)
	list := reg.List()
	if len(list) != 1 {
		t.Fatalf("len = %d, want upsert not append", len(list))
	}
	if list[0].URL != "http://new" {
		t.Fatalf("url = %s", list[0].URL)
	}
}

func TestNodeRegistryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	reg, err := OpenNodeRegistry(path)
	if err != nil {
		t.Fatalf("OpenNodeRegistry: %v", err)
	}
	if _, err := reg.Register("alpha", "relay", "http://alpha", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	reopened, err := OpenNodeRegistry(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	list := reopened.List()
	if len(list) != 1 || list[0].URL != "http://alpha" {
		t.Fatalf("reloaded = %+v", list)
	}
}
