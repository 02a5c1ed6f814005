package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	StartGame(ctx context.Context, id string) (*entity.Game, error)
	Play(ctx context.Context, id string, row, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	Apply(ctx context.Context, id string, op usecase.Operation) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
	Results(ctx context.Context, limit int) (*usecase.Results, error)
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	validate *validator.Validate
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		games:    games,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router - builds the HTTP routes of the game API.
func (that *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	games := router.PathPrefix("/games").Subrouter()
	games.HandleFunc("", that.handleCreateGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}", that.handleGetGame).Methods(http.MethodGet)
	games.HandleFunc("/{id}", that.handleDeleteGame).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/start", that.handleStartGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}/turn", that.handleGameTurn).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", that.handleResetGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}/op", that.handleOperation).Methods(http.MethodPost)

	router.HandleFunc("/results", that.handleResults).Methods(http.MethodGet)

	return router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
