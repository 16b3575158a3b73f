// Package server exposes the assistant over a WebSocket chat surface with a
// minimal embedded web client.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Literal shown when a chat message arrives without an email; the turn does
// not proceed.
const msgEmailRequired = "Please enter your email address before starting the chat."

// Responder handles one user turn. *conversation.Runner satisfies this;
// tests substitute fakes.
type Responder interface {
	Run(ctx context.Context, email, message string) (string, error)
}

// inbound is a chat message from the client.
type inbound struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// outbound is a reply to the client.
type outbound struct {
	Type string `json:"type"` // "response" or "error"
	Text string `json:"text"`
}

// Server serves the chat page and the WebSocket endpoint.
type Server struct {
	responder Responder
	upgrader  websocket.Upgrader
	mux       *http.ServeMux
}

// Config configures the server.
type Config struct {
	// Responder handles chat turns (required).
	Responder Responder
}

// New creates a chat server.
func New(cfg Config) *Server {
	s := &Server{
		responder: cfg.Responder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	s.mux = mux

	return s
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] Listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the underlying handler (for tests and custom servers).
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(chatPage))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] Read failed: %v", err)
			}
			return
		}

		out := s.handleMessage(r.Context(), in)
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[SERVER] Write failed: %v", err)
			return
		}
	}
}

// handleMessage runs one chat turn. Backend failures are surfaced as plain
// text and keep the connection alive; there are no retries.
func (s *Server) handleMessage(ctx context.Context, in inbound) outbound {
	if in.Email == "" {
		return outbound{Type: "response", Text: msgEmailRequired}
	}

	text, err := s.responder.Run(ctx, in.Email, in.Message)
	if err != nil {
		log.Printf("[SERVER] Turn failed for %s: %v", in.Email, err)
		return outbound{Type: "error", Text: "Sorry, something went wrong handling that message. Please try again."}
	}

	return outbound{Type: "response", Text: text}
}
