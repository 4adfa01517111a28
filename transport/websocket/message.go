package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const writeWait = 10 * time.Second

const (
	actionWatch  = "match:watch"
	actionMove   = "match:move"
	actionAIMove = "match:ai-move"
	actionError  = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	MatchID  string        `json:"match_id,omitempty"`
	Move     string        `json:"move,omitempty"`
	Args     []any         `json:"args,omitempty"`
	PlayerID entity.Mark   `json:"player_id,omitempty"`
	Match    *entity.Match `json:"match,omitempty"`
	Status   string        `json:"status,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// client wraps one connection; gorilla allows a single concurrent writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (that *client) send(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
