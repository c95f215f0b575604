package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgallion1/tldr/internal/disclosure"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// clientMessage is sent by the page when a level control is clicked.
type clientMessage struct {
	Type  string        `json:"type"`
	Level doctree.Level `json:"level"`
}

// serverMessage carries renderer commands, or an error for a rejected message.
type serverMessage struct {
	Type     string               `json:"type"`
	Commands []disclosure.Command `json:"commands,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// handleDisclosureSession runs one disclosure controller per connection. The
// controller starts at the configured default level, and every toggle is
// answered with the commands the page must apply.
func (s *Server) handleDisclosureSession(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.log.Warn("websocket upgrade failed", "doc_id", doc.ID, "error", err)
		return
	}
	defer conn.Close()

	log := s.log.With("doc_id", doc.ID, "remote", r.RemoteAddr)
	log.Debug("disclosure session opened")

	ctrl, cmds := disclosure.New(doctree.Level(s.orchestrator.Options().DefaultLevel))

	done := make(chan struct{})
	defer close(done)
	writes := make(chan serverMessage, 8)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.writeLoop(conn, writes, done)
	}()

	writes <- serverMessage{Type: "commands", Commands: cmds}

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("disclosure session read failed", "error", err)
			}
			return
		}

		reply, err := handleClientMessage(ctrl, msg)
		if err != nil {
			reply = serverMessage{Type: "error", Error: err.Error()}
		}
		select {
		case writes <- reply:
		case <-stopped:
			return
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

func handleClientMessage(ctrl *disclosure.Controller, msg clientMessage) (serverMessage, error) {
	switch msg.Type {
	case "toggle":
		if !msg.Level.Valid() {
			return serverMessage{}, fmt.Errorf("invalid level %d", msg.Level)
		}
		// A toggle on a disabled control yields no commands; the reply is
		// still sent so the client can tell it was processed.
		return serverMessage{Type: "commands", Commands: ctrl.Toggle(msg.Level)}, nil
	default:
		return serverMessage{}, fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
}

// writeLoop is the connection's only writer. It also keeps the connection alive
// with pings.
func (s *Server) writeLoop(conn *websocket.Conn, writes <-chan serverMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case msg := <-writes:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
