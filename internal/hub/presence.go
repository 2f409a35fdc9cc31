package hub

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

// SessionID identifies one transport connection for its lifetime.
type SessionID string

const (
	// MaxJoinedRooms caps how many rooms a single connection may occupy.
	MaxJoinedRooms = 32
	// MaxNameLength caps user-supplied display names.
	MaxNameLength = 48
	// DefaultName is used when a client supplies no usable display name.
	DefaultName = "guest"
)

// Presence is the registry's record for one connection.
type Presence struct {
	SID      SessionID
	Name     string
	Active   world.Key
	Rooms    []world.Key
	LastSeen time.Time
}

func (p *Presence) inRoom(room world.Key) bool {
	for _, r := range p.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Registry is the single source of truth for who is online and where. It
// maintains the presence table and the room membership index together under
// one lock so that the two can never disagree: a session id appears in a
// room's member set exactly when that room appears in the session's room set.
type Registry struct {
	mu      sync.RWMutex
	online  map[SessionID]*Presence
	members map[world.Key]map[SessionID]struct{}
}

// NewRegistry constructs an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		online:  make(map[SessionID]*Presence),
		members: make(map[world.Key]map[SessionID]struct{}),
	}
}

// Connect records a fresh connection with defaults and no room membership.
func (r *Registry) Connect(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online[sid] = &Presence{
		SID:      sid,
		Name:     DefaultName,
		Active:   world.Lobby,
		LastSeen: time.Now().UTC(),
	}
}

// Disconnect removes the connection from every room and from the presence
// table. It returns the rooms the connection occupied so callers can
// rebroadcast occupant lists.
func (r *Registry) Disconnect(sid SessionID) []world.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.online[sid]
	if !ok {
		return nil
	}
	affected := append([]world.Key(nil), p.Rooms...)
	for _, room := range p.Rooms {
		r.removeMemberLocked(room, sid)
	}
	delete(r.online, sid)
	return affected
}

// JoinResult reports the normalized outcome of a join request.
type JoinResult struct {
	Name   string
	Active world.Key
	Rooms  []world.Key
	Added  []world.Key
}

// Join applies the join protocol's bookkeeping: sanitize the display name,
// normalize the requested rooms (lobby always included, deduplicated,
// capped), union them into the connection's joined set, update the
// membership index, and set the active room. The presence table and
// membership index move together inside one critical section.
func (r *Registry) Join(sid SessionID, name string, rooms []string, active string) (JoinResult, bool) {
	requested := normalizeRooms(rooms)
	activeKey, ok := world.NormalizeKey(active)
	if !ok {
		activeKey = world.Lobby
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.online[sid]
	if !ok {
		return JoinResult{}, false
	}

	p.Name = SanitizeName(name)
	var added []world.Key
	for _, room := range requested {
		if len(p.Rooms) >= MaxJoinedRooms {
			break
		}
		if p.inRoom(room) {
			continue
		}
		p.Rooms = append(p.Rooms, room)
		r.addMemberLocked(room, sid)
		added = append(added, room)
	}
	if !p.inRoom(activeKey) {
		activeKey = world.Lobby
	}
	p.Active = activeKey
	p.LastSeen = time.Now().UTC()

	return JoinResult{
		Name:   p.Name,
		Active: p.Active,
		Rooms:  append([]world.Key(nil), p.Rooms...),
		Added:  added,
	}, true
}

// Leave removes the connection from one room. The lobby can never be left:
// such a request is a no-op and Leave reports false. When the departed room
// was the connection's active room, focus falls back to the lobby.
func (r *Registry) Leave(sid SessionID, room world.Key) bool {
	if room == world.Lobby {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.online[sid]
	if !ok || !p.inRoom(room) {
		return false
	}
	kept := p.Rooms[:0]
	for _, joined := range p.Rooms {
		if joined != room {
			kept = append(kept, joined)
		}
	}
	p.Rooms = kept
	r.removeMemberLocked(room, sid)
	if p.Active == room {
		p.Active = world.Lobby
	}
	p.LastSeen = time.Now().UTC()
	return true
}

func (r *Registry) addMemberLocked(room world.Key, sid SessionID) {
	set, ok := r.members[room]
	if !ok {
		set = make(map[SessionID]struct{})
		r.members[room] = set
	}
	set[sid] = struct{}{}
}

func (r *Registry) removeMemberLocked(room world.Key, sid SessionID) {
	set, ok := r.members[room]
	if !ok {
		return
	}
	delete(set, sid)
	if len(set) == 0 && room != world.Lobby {
		delete(r.members, room)
	}
}

// Lookup returns a copy of the presence record for the session.
func (r *Registry) Lookup(sid SessionID) (Presence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.online[sid]
	if !ok {
		return Presence{}, false
	}
	copied := *p
	copied.Rooms = append([]world.Key(nil), p.Rooms...)
	return copied, true
}

// Name returns the display name for the session, or the default when the
// session is unknown.
func (r *Registry) Name(sid SessionID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.online[sid]; ok {
		return p.Name
	}
	return DefaultName
}

// Online reports whether the session is connected.
func (r *Registry) Online(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.online[sid]
	return ok
}

// Touch refreshes the session's last-seen timestamp.
func (r *Registry) Touch(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.online[sid]; ok {
		p.LastSeen = time.Now().UTC()
	}
}

// RoomMembers returns the session ids currently joined to the room.
func (r *Registry) RoomMembers(room world.Key) []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[room]
	out := make([]SessionID, 0, len(set))
	for sid := range set {
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoomUsers returns the occupants of a room for the room_users broadcast.
func (r *Registry) RoomUsers(room world.Key) []RoomUser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[room]
	users := make([]RoomUser, 0, len(set))
	for sid := range set {
		p, ok := r.online[sid]
		if !ok {
			continue
		}
		users = append(users, RoomUser{SID: string(sid), Name: p.Name, Room: string(room)})
	}
	sort.Slice(users, func(i, j int) bool {
		if !strings.EqualFold(users[i].Name, users[j].Name) {
			return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
		}
		return users[i].SID < users[j].SID
	})
	return users
}

// Summary returns the global presence list, sorted by name then session id.
func (r *Registry) Summary() []UserSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]UserSummary, 0, len(r.online))
	for sid, p := range r.online {
		rooms := make([]string, 0, len(p.Rooms))
		for _, room := range p.Rooms {
			rooms = append(rooms, string(room))
		}
		users = append(users, UserSummary{
			SID:   string(sid),
			Name:  p.Name,
			Room:  string(p.Active),
			Rooms: rooms,
		})
	}
	sort.Slice(users, func(i, j int) bool {
		if !strings.EqualFold(users[i].Name, users[j].Name) {
			return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
		}
		return users[i].SID < users[j].SID
	})
	return users
}

// RoomCounts maps each occupied room to its member count.
func (r *Registry) RoomCounts() map[world.Key]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[world.Key]int, len(r.members))
	for room, set := range r.members {
		if len(set) > 0 {
			counts[room] = len(set)
		}
	}
	return counts
}

// SanitizeName trims and de-controls a display name, capping its length and
// substituting the default when nothing usable remains.
func SanitizeName(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == ' ':
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(' ')
		case r < 0x20 || r == 0x7f:
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
		case !unicode.IsPrint(r):
		default:
			builder.WriteRune(r)
		}
	}
	name := strings.TrimSpace(builder.String())
	if name == "" {
		return DefaultName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
		if name == "" {
			return DefaultName
		}
	}
	return name
}

// normalizeRooms trims, prefixes, and deduplicates requested room names,
// always placing the lobby first.
func normalizeRooms(rooms []string) []world.Key {
	out := []world.Key{world.Lobby}
	seen := map[world.Key]struct{}{world.Lobby: {}}
	for _, raw := range rooms {
		key, ok := world.NormalizeKey(raw)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
		if len(out) >= MaxJoinedRooms {
			break
		}
	}
	return out
}
