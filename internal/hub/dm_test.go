package hub

import (
	"fmt"
	"testing"
)

func TestDMChannelKeyIsOrderIndependent(t *testing.T) {
	if dmChannelKey("a", "b") != dmChannelKey("b", "a") {
		t.Fatal("either participant must derive the same channel key")
	}
}

func TestDMRelayHistoryBounded(t *testing.T) {
	relay := NewDMRelay()
	for i := 0; i < DMHistoryMax+50; i++ {
		relay.Append("a", "b", DMMessage{Kind: "dm", Msg: fmt.Sprintf("m%d", i)})
	}
	history := relay.History("b", "a")
	if len(history) != DMHistoryMax {
		t.Fatalf("len = %d, want %d", len(history), DMHistoryMax)
	}
	if history[len(history)-1].Msg != fmt.Sprintf("m%d", DMHistoryMax+49) {
		t.Fatalf("newest = %q", history[len(history)-1].Msg)
	}
}

func TestDMRelayHistoryIsACopy(t *testing.T) {
	relay := NewDMRelay()
	relay.Append("a", "b", DMMessage{Msg: "original"})
	history := relay.History("a", "b")
	history[0].Msg = "tampered"
	if relay.History("a", "b")[0].Msg != "original" {
		t.Fatal("history must not alias internal storage")
	}
}

func TestDMRelayForgetDropsAllChannels(t *testing.T) {
	relay := NewDMRelay()
	relay.Append("a", "b", DMMessage{Msg: "ab"})
	relay.Append("a", "c", DMMessage{Msg: "ac"})
	relay.Append("b", "c", DMMessage{Msg: "bc"})
	relay.Forget("a")
	if got := relay.History("a", "b"); got != nil {
		t.Fatalf("a-b history survived forget: %v", got)
	}
	if got := relay.History("a", "c"); got != nil {
		t.Fatalf("a-c history survived forget: %v", got)
	}
	if got := relay.History("b", "c"); len(got) != 1 {
		t.Fatalf("unrelated channel was dropped: %v", got)
	}
}
