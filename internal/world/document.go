package world

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Key is the canonical identifier for a chat room's world, always "#"-prefixed.
type Key string

// Lobby is the well-known room every connection belongs to.
const Lobby Key = "#lobby"

// NormalizeKey trims the raw room name and ensures the canonical "#" prefix.
// The second return value reports whether anything usable remained.
func NormalizeKey(raw string) (Key, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if !strings.HasPrefix(trimmed, "#") {
		trimmed = "#" + trimmed
	}
	if trimmed == "#" {
		return "", false
	}
	return Key(trimmed), true
}

// Meta holds the display metadata for a room's world.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Roles records who may manage a world: one owner plus any helpers.
type Roles struct {
	Owner   string   `json:"owner,omitempty"`
	Helpers []string `json:"helpers,omitempty"`
}

// IsOwner reports whether the handle matches the world owner.
func (r Roles) IsOwner(user string) bool {
	owner := strings.TrimSpace(r.Owner)
	return owner != "" && strings.EqualFold(owner, strings.TrimSpace(user))
}

// IsHelper reports whether the handle is listed as a helper.
func (r Roles) IsHelper(user string) bool {
	trimmed := strings.TrimSpace(user)
	if trimmed == "" {
		return false
	}
	for _, h := range r.Helpers {
		if strings.EqualFold(h, trimmed) {
			return true
		}
	}
	return false
}

// CanManage reports whether the handle holds the owner or a helper role.
func (r Roles) CanManage(user string) bool {
	return r.IsOwner(user) || r.IsHelper(user)
}

// Location pins a home inside its assigned world.
type Location struct {
	City string `json:"city,omitempty"`
	Area string `json:"area,omitempty"`
	Pin  string `json:"pin,omitempty"`
}

// String renders the location as "city / area / pin", skipping empty parts.
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Area, l.Pin} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// HomeRoom is a sub-location inside a Home, unrelated to chat rooms.
type HomeRoom struct {
	Name  string `json:"name"`
	Style string `json:"style,omitempty"`
	Size  string `json:"size,omitempty"`
	Mood  string `json:"mood,omitempty"`
}

// Door is a directed link between two home room names.
type Door struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type,omitempty"`
}

// Home is a named sub-estate within a world document.
type Home struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Desc       string     `json:"desc,omitempty"`
	Style      string     `json:"style,omitempty"`
	Size       string     `json:"size,omitempty"`
	Mood       string     `json:"mood,omitempty"`
	Type       string     `json:"type,omitempty"`
	Bedrooms   int        `json:"bedrooms,omitempty"`
	Bathrooms  int        `json:"bathrooms,omitempty"`
	Kitchens   int        `json:"kitchens,omitempty"`
	TotalRooms int        `json:"total_rooms,omitempty"`
	ColorSheen string     `json:"color_sheen,omitempty"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	WorldID    string     `json:"world_id,omitempty"`
	Location   Location   `json:"location,omitempty"`
	Rooms      []HomeRoom `json:"rooms"`
	Doors      []Door     `json:"doors"`
}

// FindRoom locates a home room by name, case-insensitively.
func (h *Home) FindRoom(name string) (int, bool) {
	target := strings.TrimSpace(name)
	if target == "" {
		return -1, false
	}
	for i, r := range h.Rooms {
		if strings.EqualFold(r.Name, target) {
			return i, true
		}
	}
	return -1, false
}

// AddRoom appends a room unless one with the same name already exists.
func (h *Home) AddRoom(room HomeRoom) bool {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return false
	}
	if _, exists := h.FindRoom(room.Name); exists {
		return false
	}
	h.Rooms = append(h.Rooms, room)
	return true
}

// AddDoor links two room names, creating either endpoint as an empty room if
// absent so that a door reference always resolves. A door with the same
// (from, to) pair is not duplicated.
func (h *Home) AddDoor(from, to, doorType string) bool {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return false
	}
	if _, ok := h.FindRoom(from); !ok {
		h.Rooms = append(h.Rooms, HomeRoom{Name: from})
	}
	if _, ok := h.FindRoom(to); !ok {
		h.Rooms = append(h.Rooms, HomeRoom{Name: to})
	}
	for _, d := range h.Doors {
		if strings.EqualFold(d.From, from) && strings.EqualFold(d.To, to) {
			return false
		}
	}
	h.Doors = append(h.Doors, Door{From: from, To: to, Type: doorType})
	return true
}

// Summary renders a one-line description of the home for chat output.
func (h *Home) Summary() string {
	parts := make([]string, 0, 6)
	if mood := strings.TrimSpace(h.Mood); mood != "" {
		parts = append(parts, mood)
	}
	parts = append(parts, "#"+h.ID)
	if name := strings.TrimSpace(h.Name); name != "" {
		parts = append(parts, name)
	}
	if style := strings.TrimSpace(h.Style); style != "" {
		parts = append(parts, "style:"+style)
	}
	if size := strings.TrimSpace(h.Size); size != "" {
		parts = append(parts, "size:"+size)
	}
	if desc := strings.TrimSpace(h.Desc); desc != "" && desc != strings.TrimSpace(h.Name) {
		parts = append(parts, desc)
	}
	return strings.Join(parts, " • ")
}

// WorldInfo captures the generated planet-level record from the world builder.
type WorldInfo struct {
	Name            string    `json:"name"`
	Biome           string    `json:"biome,omitempty"`
	Style           string    `json:"style,omitempty"`
	Size            string    `json:"size,omitempty"`
	Population      int       `json:"population,omitempty"`
	HomeCity        string    `json:"home_city,omitempty"`
	Weather         string    `json:"weather,omitempty"`
	Mood            string    `json:"mood,omitempty"`
	AgeBillionYears float64   `json:"age_billion_years,omitempty"`
	PlanetHealth    float64   `json:"health_of_planet,omitempty"`
	Factions        int       `json:"factions,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// DocumentVersion is the current on-disk schema revision.
const DocumentVersion = 2

// Document is the persisted, mutable world record for one chat room.
type Document struct {
	Version       int                   `json:"version"`
	Meta          Meta                  `json:"meta"`
	Roles         Roles                 `json:"roles"`
	Homes         map[string]*Home      `json:"homes_v2"`
	DefaultHomeID string                `json:"default_home_id,omitempty"`
	SelectedHomes map[string]string     `json:"selected_home_by_user,omitempty"`
	Worlds        map[string]*WorldInfo `json:"worlds,omitempty"`
	ActiveWorldID string                `json:"active_world_id,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`

	// LegacyHomes carries the pre-v2 per-owner home lists so Normalize can
	// fold them into the directory. Never written back.
	LegacyHomes map[string][]*Home `json:"homes,omitempty"`
}

// NewDocument constructs an empty document with defaults for the given room.
func NewDocument(room Key) *Document {
	return &Document{
		Version:       DocumentVersion,
		Meta:          Meta{Name: string(room)},
		Homes:         make(map[string]*Home),
		SelectedHomes: make(map[string]string),
		Worlds:        make(map[string]*WorldInfo),
		UpdatedAt:     time.Now().UTC(),
	}
}

// Normalize migrates a freshly decoded document into the canonical in-memory
// shape: maps allocated, legacy per-owner home lists folded in, identifiers
// filled, and dangling home pointers repaired. It is invoked once on load and
// is idempotent.
func (d *Document) Normalize(room Key) {
	if d.Version < DocumentVersion {
		d.Version = DocumentVersion
	}
	if strings.TrimSpace(d.Meta.Name) == "" {
		d.Meta.Name = string(room)
	}
	if d.Homes == nil {
		d.Homes = make(map[string]*Home)
	}
	if d.SelectedHomes == nil {
		d.SelectedHomes = make(map[string]string)
	}
	if d.Worlds == nil {
		d.Worlds = make(map[string]*WorldInfo)
	}
	d.foldLegacyHomes()
	now := time.Now().UTC()
	for id, home := range d.Homes {
		if home == nil {
			delete(d.Homes, id)
			continue
		}
		if strings.TrimSpace(home.ID) == "" {
			home.ID = id
		}
		if home.CreatedAt.IsZero() {
			home.CreatedAt = now
		}
		if home.Rooms == nil {
			home.Rooms = []HomeRoom{}
		}
		if home.Doors == nil {
			home.Doors = []Door{}
		}
	}
	d.RepairHomePointers()
}

func (d *Document) foldLegacyHomes() {
	if len(d.LegacyHomes) == 0 {
		d.LegacyHomes = nil
		return
	}
	for owner, list := range d.LegacyHomes {
		for _, home := range list {
			if home == nil {
				continue
			}
			if strings.TrimSpace(home.CreatedBy) == "" {
				home.CreatedBy = owner
			}
			id := strings.TrimSpace(home.ID)
			if id == "" {
				id = d.freshHomeID(time.Now().UTC())
				home.ID = id
			}
			if _, taken := d.Homes[id]; !taken {
				d.Homes[id] = home
			}
		}
	}
	d.LegacyHomes = nil
}

// RepairHomePointers redirects the default pointer and every per-user
// selection that references a missing home to an existing home, or clears
// them when the directory is empty. It reports whether anything changed.
// Repairing twice is a no-op.
func (d *Document) RepairHomePointers() bool {
	changed := false
	if d.DefaultHomeID != "" {
		if _, ok := d.Homes[d.DefaultHomeID]; !ok {
			d.DefaultHomeID = d.firstHomeID()
			changed = true
		}
	}
	if d.DefaultHomeID == "" && len(d.Homes) > 0 {
		d.DefaultHomeID = d.firstHomeID()
		changed = true
	}
	for user, id := range d.SelectedHomes {
		if _, ok := d.Homes[id]; ok {
			continue
		}
		if d.DefaultHomeID != "" {
			d.SelectedHomes[user] = d.DefaultHomeID
		} else {
			delete(d.SelectedHomes, user)
		}
		changed = true
	}
	return changed
}

func (d *Document) firstHomeID() string {
	if len(d.Homes) == 0 {
		return ""
	}
	ids := make([]string, 0, len(d.Homes))
	for id := range d.Homes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// HomeIDs returns the home identifiers in stable order.
func (d *Document) HomeIDs() []string {
	ids := make([]string, 0, len(d.Homes))
	for id := range d.Homes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EnsureDefaultHome guarantees at least one home exists and that the default
// pointer references it, synthesizing a starter home when the directory is
// empty. It returns the default home.
func (d *Document) EnsureDefaultHome(room Key, creator string) *Home {
	if home, ok := d.Homes[d.DefaultHomeID]; ok {
		return home
	}
	if d.RepairHomePointers() {
		if home, ok := d.Homes[d.DefaultHomeID]; ok {
			return home
		}
	}
	if strings.TrimSpace(creator) == "" {
		creator = "hub"
	}
	now := time.Now().UTC()
	home := &Home{
		ID:        d.freshHomeID(now),
		Name:      "World Home",
		Desc:      fmt.Sprintf("Default home for %s", room),
		CreatedBy: creator,
		CreatedAt: now,
		Rooms:     []HomeRoom{},
		Doors:     []Door{},
	}
	d.Homes[home.ID] = home
	d.DefaultHomeID = home.ID
	return home
}

// ActiveHome resolves the home a user is working with: their selection first,
// then the document default, self-healing any dangling pointer along the way.
func (d *Document) ActiveHome(room Key, user string) *Home {
	if id, ok := d.SelectedHomes[selectionKey(user)]; ok {
		if home, ok := d.Homes[id]; ok {
			return home
		}
	}
	return d.EnsureDefaultHome(room, user)
}

// SelectHome records the user's working home. It fails when the id is unknown.
func (d *Document) SelectHome(user, id string) bool {
	if _, ok := d.Homes[id]; !ok {
		return false
	}
	d.SelectedHomes[selectionKey(user)] = id
	return true
}

// SelectedHomeID returns the user's current selection, if any.
func (d *Document) SelectedHomeID(user string) (string, bool) {
	id, ok := d.SelectedHomes[selectionKey(user)]
	return id, ok
}

// AddHome inserts the home into the directory, selects it for its creator,
// and makes it the default when no default exists yet.
func (d *Document) AddHome(home *Home) {
	d.Homes[home.ID] = home
	if d.DefaultHomeID == "" {
		d.DefaultHomeID = home.ID
	}
	if creator := strings.TrimSpace(home.CreatedBy); creator != "" {
		d.SelectedHomes[selectionKey(creator)] = home.ID
	}
}

// RemoveHome deletes a home and repoints the default and any selections that
// referenced it.
func (d *Document) RemoveHome(id string) {
	delete(d.Homes, id)
	if d.DefaultHomeID == id {
		d.DefaultHomeID = d.firstHomeID()
	}
	for user, selected := range d.SelectedHomes {
		if selected != id {
			continue
		}
		if d.DefaultHomeID != "" {
			d.SelectedHomes[user] = d.DefaultHomeID
		} else {
			delete(d.SelectedHomes, user)
		}
	}
}

// CanDeleteHome reports whether the user may remove the home: its creator or
// anyone holding a manager role for the enclosing world.
func (d *Document) CanDeleteHome(user string, home *Home) bool {
	if home == nil {
		return false
	}
	trimmed := strings.TrimSpace(user)
	if trimmed != "" && strings.EqualFold(home.CreatedBy, trimmed) {
		return true
	}
	return d.Roles.CanManage(user)
}

// ActiveWorld returns the active world entry, when one is set and present.
func (d *Document) ActiveWorld() (string, *WorldInfo, bool) {
	if d.ActiveWorldID == "" {
		return "", nil, false
	}
	w, ok := d.Worlds[d.ActiveWorldID]
	if !ok {
		return "", nil, false
	}
	return d.ActiveWorldID, w, true
}

// FindWorld resolves a world by id or, failing that, by case-insensitive name.
func (d *Document) FindWorld(target string) (string, bool) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "", false
	}
	if _, ok := d.Worlds[trimmed]; ok {
		return trimmed, true
	}
	for _, id := range d.WorldIDs() {
		if strings.EqualFold(d.Worlds[id].Name, trimmed) {
			return id, true
		}
	}
	return "", false
}

// WorldIDs returns the world identifiers in stable order.
func (d *Document) WorldIDs() []string {
	ids := make([]string, 0, len(d.Worlds))
	for id := range d.Worlds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FreshHomeID mints a home identifier unique within this document.
func (d *Document) FreshHomeID(now time.Time) string {
	return d.freshHomeID(now)
}

func (d *Document) freshHomeID(now time.Time) string {
	base := now.UnixMilli()
	for {
		id := fmt.Sprintf("%d", base)
		if len(id) > 8 {
			id = id[len(id)-8:]
		}
		if _, taken := d.Homes[id]; !taken {
			return id
		}
		base++
	}
}

// FreshWorldID mints a world identifier unique within this document.
func (d *Document) FreshWorldID() string {
	for i := len(d.Worlds) + 1; ; i++ {
		id := fmt.Sprintf("w%d", i)
		if _, taken := d.Worlds[id]; !taken {
			return id
		}
	}
}

func selectionKey(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = "guest"
	}
	return "@" + strings.ToLower(user)
}
