package world

import (
	"log"
	"sync"
	"time"
)

// Cache is the in-memory front for world documents. Documents are loaded
// lazily on first access and every mutation writes through to the store.
// Persistence failures are logged and swallowed: the in-memory document stays
// authoritative for the running process, and a restart may lose the
// unpersisted mutation. That durability gap is accepted by design.
type Cache struct {
	store Store

	mu    sync.Mutex
	rooms map[Key]*cacheEntry
}

type cacheEntry struct {
	mu  sync.Mutex
	doc *Document
}

// NewCache wraps the store with the live document cache.
func NewCache(store Store) *Cache {
	return &Cache{
		store: store,
		rooms: make(map[Key]*cacheEntry),
	}
}

func (c *Cache) entry(room Key) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.rooms[room]
	if !ok {
		e = &cacheEntry{}
		c.rooms[room] = e
	}
	return e
}

// load populates the entry's document, reading from the store on first touch
// and normalizing whatever shape was persisted. Callers hold e.mu.
func (c *Cache) load(room Key, e *cacheEntry) *Document {
	if e.doc != nil {
		return e.doc
	}
	doc, ok, err := c.store.Load(room)
	if err != nil {
		log.Printf("world: load %s: %v", room, err)
	}
	if !ok || doc == nil {
		doc = NewDocument(room)
	}
	doc.Normalize(room)
	e.doc = doc
	return doc
}

// Ensure loads the room's document into memory, creating defaults when the
// store has no record. It never reports absence.
func (c *Cache) Ensure(room Key) {
	e := c.entry(room)
	e.mu.Lock()
	c.load(room, e)
	e.mu.Unlock()
}

// Mutate applies fn to the live document under the room's lock, then writes
// the document through to the store. The save happens inside the critical
// section so the encoder never observes a concurrent mutation.
func (c *Cache) Mutate(room Key, fn func(*Document)) {
	e := c.entry(room)
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := c.load(room, e)
	fn(doc)
	doc.UpdatedAt = time.Now().UTC()
	if err := c.store.Save(room, doc); err != nil {
		log.Printf("world: save %s: %v", room, err)
	}
}

// View calls fn with the live document under the room's lock without writing
// back. Handlers that only render state use this.
func (c *Cache) View(room Key, fn func(*Document)) {
	e := c.entry(room)
	e.mu.Lock()
	doc := c.load(room, e)
	fn(doc)
	e.mu.Unlock()
}

// Snapshot returns display-oriented copies of the room's metadata and roles.
func (c *Cache) Snapshot(room Key) (Meta, Roles) {
	var meta Meta
	var roles Roles
	c.View(room, func(doc *Document) {
		meta = doc.Meta
		roles = Roles{Owner: doc.Roles.Owner, Helpers: append([]string(nil), doc.Roles.Helpers...)}
	})
	return meta, roles
}

// Stats summarizes the room's directory sizes for display.
func (c *Cache) Stats(room Key) (homes, worlds int) {
	c.View(room, func(doc *Document) {
		homes = len(doc.Homes)
		worlds = len(doc.Worlds)
	})
	return homes, worlds
}

// Reset replaces the room's document with a blank default and persists it.
func (c *Cache) Reset(room Key) {
	e := c.entry(room)
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := NewDocument(room)
	doc.Normalize(room)
	e.doc = doc
	if err := c.store.Save(room, doc); err != nil {
		log.Printf("world: save %s: %v", room, err)
	}
}

// AppendLog records a chat line in the room's durable log. Failures are
// logged and swallowed so a slow or broken disk never blocks chat.
func (c *Cache) AppendLog(room Key, entry LogEntry) {
	if err := c.store.AppendLog(room, entry); err != nil {
		log.Printf("world: append log %s: %v", room, err)
	}
}

// History returns up to limit recent persisted chat lines for the room.
func (c *Cache) History(room Key, limit int) []LogEntry {
	entries, err := c.store.History(room, limit)
	if err != nil {
		log.Printf("world: history %s: %v", room, err)
		return nil
	}
	return entries
}
