package hub

import (
	"strings"
	"sync"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

const (
	// RoomHistoryMax bounds the in-memory chat history kept per room.
	RoomHistoryMax = 250
	// DefaultBotName is the sender attributed to command responses.
	DefaultBotName = "ghost-bot"
	// SystemSender is the sender attributed to join notices.
	SystemSender = "hub"
)

// Dispatcher routes a sigil-prefixed chat line to the command layer. It is a
// function type so the command package can depend on this package without a
// cycle; the entrypoint wires the two together.
type Dispatcher func(ctx *BotContext, raw string)

// Hub coordinates sessions, presence, room chat, the world document cache,
// and the direct-message relay.
type Hub struct {
	registry *Registry
	cache    *world.Cache
	dm       *DMRelay
	dispatch Dispatcher
	botName  string

	mu       sync.RWMutex
	sessions map[SessionID]*Session
	history  map[world.Key][]ChatMessage
}

// Option configures a Hub.
type Option func(*Hub)

// WithBotName overrides the command responder's display name.
func WithBotName(name string) Option {
	return func(h *Hub) {
		if name != "" {
			h.botName = name
		}
	}
}

// WithDispatcher installs the command dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(h *Hub) { h.dispatch = d }
}

// New constructs a hub over the given registry and world cache.
func New(registry *Registry, cache *world.Cache, opts ...Option) *Hub {
	h := &Hub{
		registry: registry,
		cache:    cache,
		dm:       NewDMRelay(),
		botName:  DefaultBotName,
		sessions: make(map[SessionID]*Session),
		history:  make(map[world.Key][]ChatMessage),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry exposes the presence registry.
func (h *Hub) Registry() *Registry { return h.registry }

// Cache exposes the world document cache.
func (h *Hub) Cache() *world.Cache { return h.cache }

// BotName reports the command responder's display name.
func (h *Hub) BotName() string { return h.botName }

// Connect registers a session with the hub and the presence registry.
func (h *Hub) Connect(s *Session) {
	h.registry.Connect(s.sid)
	h.mu.Lock()
	h.sessions[s.sid] = s
	h.mu.Unlock()
	connectionsGauge.Inc()
	h.broadcastUserList()
}

// Disconnect tears a session down: membership, DM history, and the session
// table all release it, and affected rooms get fresh occupant lists.
func (h *Hub) Disconnect(sid SessionID) {
	affected := h.registry.Disconnect(sid)
	h.dm.Forget(sid)
	h.mu.Lock()
	s, ok := h.sessions[sid]
	delete(h.sessions, sid)
	h.mu.Unlock()
	if ok {
		s.Close()
		connectionsGauge.Dec()
	}
	for _, room := range affected {
		h.broadcastRoomUsers(room)
	}
	h.broadcastUserList()
}

// Handle dispatches one inbound envelope from a session.
func (h *Hub) Handle(s *Session, env Envelope) {
	h.registry.Touch(s.sid)
	switch env.Event {
	case EventJoin:
		var req JoinRequest
		if !decode(env, &req) {
			return
		}
		h.handleJoin(s, req)
	case EventLeave:
		var req LeaveRequest
		if !decode(env, &req) {
			return
		}
		h.handleLeave(s, req)
	case EventListRooms:
		h.handleListRooms(s)
	case EventSendMessage:
		var req SendMessageRequest
		if !decode(env, &req) {
			return
		}
		h.handleSendMessage(s, req)
	case EventDMOpen:
		var req DMOpenRequest
		if !decode(env, &req) {
			return
		}
		h.handleDMOpen(s, req)
	case EventDMSend:
		var req DMSendRequest
		if !decode(env, &req) {
			return
		}
		h.handleDMSend(s, req)
	case EventDMSealed:
		var req SealedRequest
		if !decode(env, &req) {
			return
		}
		h.handleDMSealed(s, req)
	case EventSealRequest, EventSealAccept:
		var req HandshakeRequest
		if !decode(env, &req) {
			return
		}
		h.handleSealHandshake(s, env.Event, req)
	case EventPingCheck:
		s.Send(EventPongCheck, PongCheck{TS: Timestamp(time.Now())})
	}
}

func decode(env Envelope, out any) bool {
	if len(env.Data) == 0 {
		return false
	}
	return jsonUnmarshal(env.Data, out) == nil
}

func (h *Hub) handleJoin(s *Session, req JoinRequest) {
	rooms := req.Rooms
	if len(rooms) == 0 && req.Room != "" {
		rooms = []string{req.Room}
	}
	active := req.Active
	if active == "" && req.Room != "" {
		active = req.Room
	}
	res, ok := h.registry.Join(s.sid, req.User, rooms, active)
	if !ok {
		return
	}
	for _, room := range res.Rooms {
		h.cache.Ensure(room)
	}

	s.Send(EventChatHistory, ChatHistory{
		Room:  string(res.Active),
		Items: h.historyFor(res.Active),
	})
	h.sendWorldSnapshot(s, res.Active)
	joined := make([]string, 0, len(res.Rooms))
	for _, room := range res.Rooms {
		joined = append(joined, string(room))
	}
	s.Send(EventJoinedRoom, JoinedRoom{
		Room:   string(res.Active),
		Active: string(res.Active),
		Rooms:  joined,
	})

	h.emitChat(res.Active, SystemSender, res.Name+" joined "+string(res.Active))
	for _, room := range res.Added {
		h.broadcastRoomUsers(room)
	}
	h.broadcastUserList()
}

func (h *Hub) handleLeave(s *Session, req LeaveRequest) {
	room, ok := world.NormalizeKey(req.Room)
	if !ok {
		return
	}
	if !h.registry.Leave(s.sid, room) {
		return
	}
	h.broadcastRoomUsers(room)
	h.broadcastUserList()
}

func (h *Hub) handleListRooms(s *Session) {
	counts := h.registry.RoomCounts()
	listing := make([]RoomListing, 0, len(counts))
	for room, count := range counts {
		homes, _ := h.cache.Stats(room)
		listing = append(listing, RoomListing{
			Room:  string(room),
			Count: count,
			Homes: homes,
		})
	}
	sortRoomListings(listing)
	s.Send(EventRoomsList, RoomsList{Rooms: listing})
}

func (h *Hub) handleSendMessage(s *Session, req SendMessageRequest) {
	msg := strings.TrimSpace(req.Msg)
	if msg == "" {
		return
	}
	p, ok := h.registry.Lookup(s.sid)
	if !ok {
		return
	}
	room := p.Active
	if key, valid := world.NormalizeKey(req.Room); valid && p.inRoom(key) {
		room = key
	}

	if strings.HasPrefix(msg, "!") {
		commandsTotal.Inc()
		h.runBot(s.sid, room, p.Name, msg)
		return
	}
	messagesTotal.Inc()
	h.emitChat(room, p.Name, msg)
}

func (h *Hub) runBot(sid SessionID, room world.Key, user, raw string) {
	if h.dispatch == nil {
		return
	}
	if strings.EqualFold(user, h.botName) {
		return
	}
	ctx := &BotContext{hub: h, Room: room, User: user, SID: sid}
	h.dispatch(ctx, raw)
}

// EmitChat records and broadcasts a chat line. The web chat endpoint uses
// this directly.
func (h *Hub) EmitChat(room world.Key, sender, msg string) {
	h.emitChat(room, sender, msg)
}

// RunBot dispatches a sigil-prefixed line on behalf of a caller with no
// session, such as the web chat endpoint. Non-command lines are ignored.
func (h *Hub) RunBot(room world.Key, sender, msg string) {
	if !strings.HasPrefix(msg, "!") {
		return
	}
	commandsTotal.Inc()
	h.runBot("", room, sender, msg)
}

func (h *Hub) emitChat(room world.Key, sender, msg string) {
	now := time.Now().UTC()
	entry := ChatMessage{
		Room:   string(room),
		Sender: sender,
		Msg:    msg,
		TS:     Timestamp(now),
	}
	h.appendHistory(room, entry)
	h.cache.AppendLog(room, world.LogEntry{
		Room:   string(room),
		TS:     now,
		Sender: sender,
		Msg:    msg,
	})
	h.broadcastRoom(room, EventChatMessage, entry)
}

// appendHistory pushes onto the room's bounded in-memory ring, seeding it
// from the durable log on first touch so joins after a restart still see
// recent context.
func (h *Hub) appendHistory(room world.Key, entry ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list, ok := h.history[room]
	if !ok {
		list = h.seedHistoryLocked(room)
	}
	list = append(list, entry)
	if len(list) > RoomHistoryMax {
		list = list[len(list)-RoomHistoryMax:]
	}
	h.history[room] = list
}

func (h *Hub) historyFor(room world.Key) []ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	list, ok := h.history[room]
	if !ok {
		list = h.seedHistoryLocked(room)
		h.history[room] = list
	}
	out := make([]ChatMessage, len(list))
	copy(out, list)
	return out
}

// seedHistoryLocked loads the tail of the durable log. Callers hold h.mu.
func (h *Hub) seedHistoryLocked(room world.Key) []ChatMessage {
	entries := h.cache.History(room, RoomHistoryMax)
	list := make([]ChatMessage, 0, len(entries))
	for _, e := range entries {
		list = append(list, ChatMessage{
			Room:   string(room),
			Sender: e.Sender,
			Msg:    e.Msg,
			TS:     Timestamp(e.TS),
		})
	}
	return list
}

func (h *Hub) sendWorldSnapshot(s *Session, room world.Key) {
	meta, roles := h.cache.Snapshot(room)
	s.Send(EventWorldMeta, WorldMetaUpdate{Room: string(room), Meta: meta})
	s.Send(EventWorldRoles, WorldRolesUpdate{
		Room:    string(room),
		Owner:   roles.Owner,
		Helpers: roles.Helpers,
	})
	s.Send(EventWorldState, h.worldState(room))
}

func (h *Hub) worldState(room world.Key) WorldStateUpdate {
	state := WorldStateUpdate{Room: string(room)}
	h.cache.View(room, func(doc *world.Document) {
		state.Homes = len(doc.Homes)
		state.Worlds = len(doc.Worlds)
		if _, w, ok := doc.ActiveWorld(); ok {
			state.ActiveWorld = w.Name
		}
	})
	return state
}

// BroadcastWorldState pushes a fresh world summary to every member of the
// room. Commands call this after mutating the room's document.
func (h *Hub) BroadcastWorldState(room world.Key) {
	state := h.worldState(room)
	h.broadcastRoom(room, EventWorldState, state)
}

// BroadcastWorldRoles pushes the room's owner and helper roster to every
// member after a role change.
func (h *Hub) BroadcastWorldRoles(room world.Key) {
	_, roles := h.cache.Snapshot(room)
	h.broadcastRoom(room, EventWorldRoles, WorldRolesUpdate{
		Room:    string(room),
		Owner:   roles.Owner,
		Helpers: roles.Helpers,
	})
}

func (h *Hub) handleDMOpen(s *Session, req DMOpenRequest) {
	to := SessionID(req.ToSID)
	if to == "" || to == s.sid || !h.registry.Online(to) {
		return
	}
	s.Send(EventDMHistory, DMHistory{
		ToSID: string(to),
		Items: h.dm.History(s.sid, to),
	})
}

func (h *Hub) handleDMSend(s *Session, req DMSendRequest) {
	to := SessionID(req.ToSID)
	msg := strings.TrimSpace(req.Msg)
	if to == "" || to == s.sid || msg == "" || !h.registry.Online(to) {
		return
	}
	entry := DMMessage{
		Kind:     "dm",
		FromSID:  string(s.sid),
		FromName: h.registry.Name(s.sid),
		ToSID:    string(to),
		ToName:   h.registry.Name(to),
		Msg:      msg,
		TS:       Timestamp(time.Now()),
	}
	h.dm.Append(s.sid, to, entry)
	dmRelayedTotal.WithLabelValues("dm").Inc()
	h.sendToPair(s.sid, to, EventDMMessage, entry)
}

// handleDMSealed relays opaque ciphertext without retaining or inspecting it.
func (h *Hub) handleDMSealed(s *Session, req SealedRequest) {
	to := SessionID(req.ToSID)
	if to == "" || to == s.sid || req.CiphertextB64 == "" || !h.registry.Online(to) {
		return
	}
	relay := SealedMessage{
		Kind:          "sealed",
		FromSID:       string(s.sid),
		FromName:      h.registry.Name(s.sid),
		ToSID:         string(to),
		ToName:        h.registry.Name(to),
		CiphertextB64: req.CiphertextB64,
		IVB64:         req.IVB64,
		Glyphset:      req.Glyphset,
		TS:            Timestamp(time.Now()),
	}
	dmRelayedTotal.WithLabelValues("sealed").Inc()
	h.sendToPair(s.sid, to, EventDMSealed, relay)
}

func (h *Hub) handleSealHandshake(s *Session, event string, req HandshakeRequest) {
	to := SessionID(req.ToSID)
	if to == "" || to == s.sid || len(req.PubKeyJWK) == 0 || !h.registry.Online(to) {
		return
	}
	relay := HandshakeRelay{
		FromSID:   string(s.sid),
		FromName:  h.registry.Name(s.sid),
		ToSID:     string(to),
		PubKeyJWK: req.PubKeyJWK,
		TS:        Timestamp(time.Now()),
	}
	h.sendToPair(s.sid, to, event, relay)
}

func (h *Hub) broadcastRoomUsers(room world.Key) {
	h.broadcastRoom(room, EventRoomUsers, RoomUsersUpdate{
		Room:  string(room),
		Users: h.registry.RoomUsers(room),
	})
}

func (h *Hub) broadcastUserList() {
	h.broadcastAll(EventUserListUpdate, UserListUpdate{
		Room:  string(world.Lobby),
		Users: h.registry.Summary(),
	})
}

func (h *Hub) broadcastRoom(room world.Key, event string, data any) {
	members := h.registry.RoomMembers(room)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sid := range members {
		if s, ok := h.sessions[sid]; ok {
			s.Send(event, data)
		}
	}
}

func (h *Hub) broadcastAll(event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		s.Send(event, data)
	}
}

func (h *Hub) sendTo(sid SessionID, event string, data any) {
	h.mu.RLock()
	s, ok := h.sessions[sid]
	h.mu.RUnlock()
	if ok {
		s.Send(event, data)
	}
}

func (h *Hub) sendToPair(a, b SessionID, event string, data any) {
	h.sendTo(a, event, data)
	h.sendTo(b, event, data)
}
