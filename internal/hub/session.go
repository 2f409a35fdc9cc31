package hub

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
)

const sessionSendBuffer = 64

// Session is the hub-side handle for one connected transport. Outbound
// messages are queued on a bounded channel drained by the transport's writer;
// when the queue is full the frame is dropped rather than blocking the hub.
type Session struct {
	sid  SessionID
	out  chan Envelope
	done chan struct{}
	once sync.Once
}

// NewSession allocates a session handle for the given id.
func NewSession(sid SessionID) *Session {
	return &Session{
		sid:  sid,
		out:  make(chan Envelope, sessionSendBuffer),
		done: make(chan struct{}),
	}
}

// SID returns the session's identifier.
func (s *Session) SID() SessionID { return s.sid }

// Send queues one event for delivery. It reports false when the frame was
// dropped because the session is closed or its queue is full.
func (s *Session) Send(event string, data any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	env := Envelope{Event: event, Data: raw}
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- env:
		return true
	default:
		return false
	}
}

// Outbox exposes the queued envelopes for the transport writer.
func (s *Session) Outbox() <-chan Envelope { return s.out }

// Done is closed when the session has been shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() { close(s.done) })
}

// NewSessionID mints a random session identifier.
func NewSessionID() SessionID {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		panic("hub: session id entropy unavailable: " + err.Error())
	}
	return SessionID(hex.EncodeToString(buf))
}
