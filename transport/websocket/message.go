package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	actionGameNew   = "game:new"
	actionGameGet   = "game:get"
	actionGameStart = "game:start"
	actionGameTurn  = "game:turn"
	actionGameReset = "game:reset"
	actionGameOp    = "game:op"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	GameID string       `json:"game_id,omitempty"`
	Op     string       `json:"op,omitempty"`
	Row    *int         `json:"row,omitempty"`
	Col    *int         `json:"col,omitempty"`
	Game   *entity.Game `json:"game,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// client is one connection. gorilla connections allow a single concurrent writer.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex
}

func (that *client) send(action string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// close sends a close frame and closes the connection, which unblocks the reader.
func (that *client) close(code int, text string) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	deadline := time.Now().Add(writeWait)
	if err := that.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline); err != nil {
		_ = that.conn.Close()
		return fmt.Errorf("failed to write close message: %w", err)
	}

	return that.conn.Close()
}

func (that *client) sendError(action, message string) error {
	return that.send(action, Payload{Error: message})
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
