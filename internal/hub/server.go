package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 25 * time.Second
	maxMessageSize = 64 << 10
)

// Server exposes the hub over HTTP: the WebSocket endpoint, the node
// registry, the chat injection endpoint, and metrics.
type Server struct {
	hub      *Hub
	nodes    *NodeRegistry
	router   chi.Router
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP surface around a hub and node registry.
func NewServer(h *Hub, nodes *NodeRegistry) *Server {
	s := &Server{
		hub:   h,
		nodes: nodes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Post("/register-node", s.handleRegisterNode)
	r.Post("/api/chat", s.handleAPIChat)
	r.Get("/ws", s.handleWS)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"main_room": string(world.Lobby),
		"nodes":     s.nodes.List(),
	})
}

type registerNodeRequest struct {
	Name    string          `json:"name"`
	Service string          `json:"service"`
	URL     string          `json:"url"`
	Data    json.RawMessage `json:"data"`
}

func (s *Server) handleRegisterNode(w http.ResponseWriter, r *http.Request) {
	var req registerNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "url is required"})
		return
	}
	rec, err := s.nodes.Register(req.Name, req.Service, req.URL, req.Data)
	if err != nil {
		log.Printf("http: register node: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "registry write failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"name":      rec.Node,
		"service":   rec.Service,
		"url":       rec.URL,
		"last_seen": rec.LastSeen,
	})
}

type apiChatRequest struct {
	Sender string `json:"sender"`
	Msg    string `json:"msg"`
}

// handleAPIChat injects a message into the lobby on behalf of an external
// node. Sigil-prefixed messages still run the command dispatcher.
func (s *Server) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	var req apiChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}
	sender := strings.TrimSpace(req.Sender)
	if sender == "" {
		sender = "node"
	}
	msg := strings.TrimSpace(req.Msg)
	if msg == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "msg required"})
		return
	}
	s.hub.EmitChat(world.Lobby, sender, msg)
	s.hub.RunBot(world.Lobby, sender, msg)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListenAndServe wires the full hub stack over a data directory and serves
// it on addr. It blocks until the listener fails.
func ListenAndServe(addr, dataDir, nodesPath string, dispatch Dispatcher, opts ...Option) error {
	store, err := world.NewFileStore(dataDir)
	if err != nil {
		return err
	}
	cache := world.NewCache(store)
	cache.Ensure(world.Lobby)

	nodes, err := OpenNodeRegistry(nodesPath)
	if err != nil {
		return err
	}

	opts = append([]Option{WithDispatcher(dispatch)}, opts...)
	h := New(NewRegistry(), cache, opts...)
	srv := NewServer(h, nodes)
	log.Printf("hub: listening on %s", addr)
	return http.ListenAndServe(addr, srv)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	session := NewSession(NewSessionID())
	s.hub.Connect(session)
	go s.writeLoop(conn, session)
	s.readLoop(conn, session)
}

func (s *Server) readLoop(conn *websocket.Conn, session *Session) {
	defer s.hub.Disconnect(session.sid)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read %s: %v", session.sid, err)
			}
			return
		}
		s.hub.Handle(session, env)
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, session *Session) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case env := <-session.Outbox():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
