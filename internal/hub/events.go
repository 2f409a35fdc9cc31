package hub

import (
	"encoding/json"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

// Transport event names consumed from clients.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventListRooms   = "list_rooms"
	EventSendMessage = "send_message"
	EventDMOpen      = "dm_open"
	EventDMSend      = "dm_send"
	EventDMSealed    = "dm_sealed"
	EventSealRequest = "seal_request"
	EventSealAccept  = "seal_accept"
	EventPingCheck   = "ping_check"
)

// Transport event names emitted to clients.
const (
	EventChatMessage    = "chat_message"
	EventChatHistory    = "chat_history"
	EventUserListUpdate = "user_list_update"
	EventRoomUsers      = "room_users"
	EventRoomsList      = "rooms_list"
	EventJoinedRoom     = "joined_room"
	EventWorldMeta      = "world_meta"
	EventWorldRoles     = "world_roles"
	EventWorldState     = "world_state"
	EventDMHistory      = "dm_history"
	EventDMMessage      = "dm_message"
	EventPongCheck      = "pong_check"
)

// Envelope frames every message on the wire in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Timestamp renders the wire form used for every ts field.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// JoinRequest asks to enter one or more rooms. Older clients send only Room.
type JoinRequest struct {
	User   string   `json:"user"`
	Rooms  []string `json:"rooms"`
	Active string   `json:"active"`
	Room   string   `json:"room"`
}

// LeaveRequest asks to part a single room.
type LeaveRequest struct {
	Room string `json:"room"`
}

// SendMessageRequest carries one chat line for a room.
type SendMessageRequest struct {
	User string `json:"user"`
	Room string `json:"room"`
	Msg  string `json:"msg"`
}

// ChatMessage is one line delivered to a room.
type ChatMessage struct {
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Msg    string `json:"msg"`
	TS     string `json:"ts"`
}

// ChatHistory delivers recent room messages on join.
type ChatHistory struct {
	Room  string        `json:"room"`
	Items []ChatMessage `json:"items"`
}

// UserSummary is one row of the global presence list.
type UserSummary struct {
	SID   string   `json:"sid"`
	Name  string   `json:"name"`
	Room  string   `json:"room"`
	Rooms []string `json:"rooms"`
}

// UserListUpdate is the global presence broadcast.
type UserListUpdate struct {
	Room  string        `json:"room"`
	Users []UserSummary `json:"users"`
}

// RoomUser is one occupant of a specific room.
type RoomUser struct {
	SID  string `json:"sid"`
	Name string `json:"name"`
	Room string `json:"room"`
}

// RoomUsersUpdate lists the occupants of one room.
type RoomUsersUpdate struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

// RoomListing is one row of the running-rooms list.
type RoomListing struct {
	Room  string `json:"room"`
	Count int    `json:"count"`
	Homes int    `json:"homes"`
}

// RoomsList enumerates rooms with at least one member.
type RoomsList struct {
	Rooms []RoomListing `json:"rooms"`
}

// JoinedRoom confirms a join and names the active room.
type JoinedRoom struct {
	Room   string   `json:"room"`
	Active string   `json:"active"`
	Rooms  []string `json:"rooms"`
}

// WorldMetaUpdate is the display metadata snapshot for a room.
type WorldMetaUpdate struct {
	Room string     `json:"room"`
	Meta world.Meta `json:"meta"`
}

// WorldRolesUpdate is the role snapshot for a room.
type WorldRolesUpdate struct {
	Room    string   `json:"room"`
	Owner   string   `json:"owner"`
	Helpers []string `json:"helpers"`
}

// WorldStateUpdate summarizes the room's world document for sidebars.
type WorldStateUpdate struct {
	Room        string `json:"room"`
	Homes       int    `json:"homes"`
	Worlds      int    `json:"worlds"`
	ActiveWorld string `json:"active_world,omitempty"`
}

// DMOpenRequest joins the caller to a two-party relay channel.
type DMOpenRequest struct {
	ToSID string `json:"to_sid"`
}

// DMSendRequest carries one plaintext direct message.
type DMSendRequest struct {
	ToSID string `json:"to_sid"`
	Msg   string `json:"msg"`
}

// DMMessage is a plaintext direct message as relayed to both parties.
type DMMessage struct {
	Kind     string `json:"kind"`
	FromSID  string `json:"from_sid"`
	FromName string `json:"from_name"`
	ToSID    string `json:"to_sid"`
	ToName   string `json:"to_name"`
	Msg      string `json:"msg"`
	TS       string `json:"ts"`
}

// DMHistory returns the retained plaintext history for a relay channel.
// Sealed traffic is never retained and so never appears here.
type DMHistory struct {
	ToSID string      `json:"to_sid"`
	Items []DMMessage `json:"items"`
}

// SealedRequest carries opaque ciphertext the server must not interpret.
type SealedRequest struct {
	ToSID         string `json:"to_sid"`
	CiphertextB64 string `json:"ciphertext_b64"`
	IVB64         string `json:"iv_b64"`
	Glyphset      string `json:"glyphset"`
}

// SealedMessage is the relayed form of a sealed direct message.
type SealedMessage struct {
	Kind          string `json:"kind"`
	FromSID       string `json:"from_sid"`
	FromName      string `json:"from_name"`
	ToSID         string `json:"to_sid"`
	ToName        string `json:"to_name"`
	CiphertextB64 string `json:"ciphertext_b64"`
	IVB64         string `json:"iv_b64"`
	Glyphset      string `json:"glyphset"`
	TS            string `json:"ts"`
}

// HandshakeRequest carries public key material between two endpoints.
type HandshakeRequest struct {
	ToSID     string          `json:"to_sid"`
	PubKeyJWK json.RawMessage `json:"pubkey_jwk"`
}

// HandshakeRelay is the relayed form of a handshake message.
type HandshakeRelay struct {
	FromSID   string          `json:"from_sid"`
	FromName  string          `json:"from_name"`
	ToSID     string          `json:"to_sid"`
	PubKeyJWK json.RawMessage `json:"pubkey_jwk"`
	TS        string          `json:"ts"`
}

// PongCheck answers a ping_check probe.
type PongCheck struct {
	TS string `json:"ts"`
}
