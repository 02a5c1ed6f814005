package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	StartGame(ctx context.Context, id string) (*entity.Game, error)
	Play(ctx context.Context, id string, row, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	Apply(ctx context.Context, id string, op usecase.Operation) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, sender *client) error

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	watchersMutex sync.RWMutex
	watchers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
		watchers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameStart] = server.handleStartGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleResetGame
	server.handlers[actionGameOp] = server.handleOperation

	return server
}

// Handler - returns the HTTP handler that upgrades requests on /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sender := &client{conn: conn}
	defer func() {
		that.forget(sender)
		_ = conn.Close()
	}()

	// http.Server.Shutdown does not track upgraded connections, they are closed here
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			if err := sender.close(websocket.CloseGoingAway, "server shutting down"); err != nil {
				log.Warn("failed to close connection", "error", err)
			}
		case <-done:
		}
	}()

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(ctx, sender); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, sender *client) error {
	log := that.logger.With("method", "handleMessages")

	sender.conn.SetReadLimit(maxMessageSize)

	for {
		var message Message
		if err := sender.conn.ReadJSON(&message); err != nil {
			if !isDecodeError(err) {
				return err
			}

			log.Warn("failed to decode message", "error", err)
			if err = sender.sendError("", "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := sender.sendError(message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, &message, sender); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// watch subscribes the client to state changes of the game.
func (that *Server) watch(gameID string, c *client) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	clients, ok := that.watchers[gameID]
	if !ok {
		clients = make(map[*client]struct{})
		that.watchers[gameID] = clients
	}
	clients[c] = struct{}{}
}

// forget drops the client from every game it watches.
func (that *Server) forget(c *client) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	for gameID, clients := range that.watchers {
		delete(clients, c)
		if len(clients) == 0 {
			delete(that.watchers, gameID)
		}
	}
}

// broadcast sends the game to everyone watching it.
func (that *Server) broadcast(action string, game *entity.Game) {
	that.watchersMutex.RLock()
	clients := make([]*client, 0, len(that.watchers[game.ID]))
	for c := range that.watchers[game.ID] {
		clients = append(clients, c)
	}
	that.watchersMutex.RUnlock()

	for _, c := range clients {
		if err := c.send(action, Payload{GameID: game.ID, Game: game}); err != nil {
			that.logger.Warn("failed to send game update", "gameID", game.ID, "error", err)
		}
	}
}
