package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Veraticus/idlewatch/pkg/events"
	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// Paths served by the server.
const (
	PathWebSocket = "/ws"
	PathHealth    = "/healthz"
)

// Greeter emits the events a client needs right after it connects.
type Greeter func(sink interfaces.EventSink) error

// Server streams hub events to WebSocket clients and answers their commands.
type Server struct {
	hub      *events.Hub
	commands *CommandHandler
	greet    Greeter
	http     *http.Server
}

// New creates a server for addr.
func New(addr string, hub *events.Hub, commands *CommandHandler) *Server {
	s := &Server{
		hub:      hub,
		commands: commands,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(PathWebSocket, s.handleWebSocket)
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	return mux
}

// SetGreeter sets the events queued for each new client as soon as it
// registers.
func (s *Server) SetGreeter(greet Greeter) {
	s.greet = greet
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("event server listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.Clients(),
	}); err != nil {
		slog.Debug("health response failed", "error", err)
	}
}

// handleWebSocket registers the client before upgrading so no event emitted
// after the handshake is missed.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	client := s.hub.Register()
	if s.greet != nil {
		if err := s.greet(s.hub.ClientSink(client)); err != nil {
			slog.Warn("greeting WebSocket client failed", "client", client.ID(), "error", err)
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.Unregister(client)
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	go s.runWriter(conn, client)
	s.runReader(conn, client)
	s.hub.Unregister(client)
}

// runWriter is the sole writer to the connection.
func (s *Server) runWriter(conn WebSocketConn, client *events.Client) {
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("WebSocket close error", "error", err)
		}
	}()

	for {
		select {
		case msg := <-client.Messages():
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("WebSocket write failed", "client", client.ID(), "error", err)
				return
			}
		case <-client.Done():
			return
		}
	}
}

func (s *Server) runReader(conn WebSocketConn, client *events.Client) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in WebSocket reader", "panic", r)
		}
	}()

	for {
		var cmd WSCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		s.commands.Handle(cmd, client)
	}
}
