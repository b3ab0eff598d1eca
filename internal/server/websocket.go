package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// message is the WebSocket envelope in both directions. Clients send
// {"type":"move","move":"e2e4"}, {"type":"undo"} or {"type":"ai","depth":3};
// the server answers with "state" or "error".
type message struct {
	Type    string     `json:"type"`
	Move    string     `json:"move,omitempty"`
	Depth   int        `json:"depth,omitempty"`
	State   *GameState `json:"state,omitempty"`
	Message string     `json:"message,omitempty"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	id := c.Param("id")
	sess, err := s.session(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("[SERVER] WebSocket upgrade error:", err)
		return
	}
	defer func() {
		sess.mu.Lock()
		delete(sess.clients, conn)
		sess.mu.Unlock()
		conn.Close()
	}()

	sess.mu.Lock()
	if sess.deleted {
		sess.mu.Unlock()
		return
	}
	sess.clients[conn] = struct{}{}
	st := stateOf(sess.game)
	err = conn.WriteJSON(message{Type: "state", State: &st})
	sess.mu.Unlock()
	if err != nil {
		return
	}
	log.Printf("[SERVER] Subscriber joined game %s", id)

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] Game %s: read error: %v", id, err)
			}
			return
		}

		// Successful changes reach this client through the broadcast.
		switch msg.Type {
		case "move":
			_, err = s.playMove(id, msg.Move)
		case "undo":
			_, err = s.undoMove(id)
		case "ai":
			_, err = s.aiMove(id, msg.Depth)
		case "state":
			sess.mu.Lock()
			st := stateOf(sess.game)
			err = conn.WriteJSON(message{Type: "state", State: &st})
			sess.mu.Unlock()
		default:
			sess.sendError(conn, "unknown message type: "+msg.Type)
			continue
		}
		if err != nil {
			sess.sendError(conn, err.Error())
		}
	}
}

// broadcast sends msg to every subscriber, dropping those that fail.
// s.mu must be held.
func (s *session) broadcast(msg message) {
	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			log.Println("[SERVER] Broadcast error:", err)
			delete(s.clients, client)
			client.Close()
		}
	}
}

func (s *session) sendError(conn *websocket.Conn, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := conn.WriteJSON(message{Type: "error", Message: text}); err != nil {
		log.Println("[SERVER] Error sending error message:", err)
	}
}
