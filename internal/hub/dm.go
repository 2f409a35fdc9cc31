package hub

import "sync"

// DMHistoryMax bounds the retained plaintext history per relay channel.
const DMHistoryMax = 200

// channelKey identifies a two-party relay channel. The pair is canonicalized
// by sorting so either participant derives the same key.
type channelKey struct {
	low  SessionID
	high SessionID
}

func dmChannelKey(a, b SessionID) channelKey {
	if b < a {
		a, b = b, a
	}
	return channelKey{low: a, high: b}
}

// DMRelay retains the bounded plaintext history for direct-message channels.
// Sealed traffic never passes through here: it is relayed and discarded, so
// nothing sealed is ever retrievable from the server.
type DMRelay struct {
	mu      sync.Mutex
	history map[channelKey][]DMMessage
}

// NewDMRelay constructs an empty relay history.
func NewDMRelay() *DMRelay {
	return &DMRelay{history: make(map[channelKey][]DMMessage)}
}

// Append records a plaintext message in the channel's rolling history.
func (r *DMRelay) Append(a, b SessionID, msg DMMessage) {
	key := dmChannelKey(a, b)
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.history[key], msg)
	if len(list) > DMHistoryMax {
		list = list[len(list)-DMHistoryMax:]
	}
	r.history[key] = list
}

// History returns a copy of the channel's retained plaintext messages.
func (r *DMRelay) History(a, b SessionID) []DMMessage {
	key := dmChannelKey(a, b)
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.history[key]
	if len(list) == 0 {
		return nil
	}
	out := make([]DMMessage, len(list))
	copy(out, list)
	return out
}

// Forget drops the retained history for every channel the session was part
// of. Called when a session disconnects.
func (r *DMRelay) Forget(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.history {
		if key.low == sid || key.high == sid {
			delete(r.history, key)
		}
	}
}
