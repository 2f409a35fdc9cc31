package hub

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

func jsonUnmarshal(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

func sortRoomListings(listing []RoomListing) {
	sort.Slice(listing, func(i, j int) bool { return listing[i].Room < listing[j].Room })
}

// BotContext is what a command handler sees: the room the command was typed
// in, who typed it, and hooks back into the hub for output and state.
type BotContext struct {
	hub  *Hub
	Room world.Key
	User string
	SID  SessionID
}

// NewBotContext builds a context for tests and out-of-band invocations.
func NewBotContext(h *Hub, room world.Key, user string, sid SessionID) *BotContext {
	return &BotContext{hub: h, Room: room, User: user, SID: sid}
}

// Cache exposes the world document cache for the command's room.
func (c *BotContext) Cache() *world.Cache { return c.hub.cache }

// BotName reports the responder name commands speak as.
func (c *BotContext) BotName() string { return c.hub.botName }

// Say emits a command response to the whole room, attributed to the bot and
// recorded in room history like any other chat line.
func (c *BotContext) Say(msg string) {
	c.hub.emitChat(c.Room, c.hub.botName, msg)
}

// Whisper emits a response to the requester only. Nothing is recorded, so
// denials and usage errors do not land in the shared history.
func (c *BotContext) Whisper(msg string) {
	c.hub.sendTo(c.SID, EventChatMessage, ChatMessage{
		Room:   string(c.Room),
		Sender: c.hub.botName,
		Msg:    msg,
		TS:     Timestamp(time.Now()),
	})
}

// Users returns the global presence summary for listing commands.
func (c *BotContext) Users() []UserSummary { return c.hub.registry.Summary() }

// RoomCounts maps occupied rooms to member counts.
func (c *BotContext) RoomCounts() map[world.Key]int { return c.hub.registry.RoomCounts() }

// WorldChanged rebroadcasts the room's world summary after a mutation.
func (c *BotContext) WorldChanged() { c.hub.BroadcastWorldState(c.Room) }

// RolesChanged rebroadcasts the room's owner and helper roster.
func (c *BotContext) RolesChanged() { c.hub.BroadcastWorldRoles(c.Room) }
