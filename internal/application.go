package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/rest"
	"github.com/rocketscienceinc/tictactoe/transport/websocket"
)

const telemetryShutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := openResults(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	shutdownTelemetry, err := telemetry.InitOtel(ctx, conf.Telemetry.Endpoint, conf.Telemetry.ExportInterval)
	if err != nil {
		return fmt.Errorf("could not init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()

		if err = shutdownTelemetry(shutdownCtx); err != nil {
			log.Error("could not flush telemetry", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("could not create metrics: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.GameTTL)
	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)
	gameUseCase := usecase.NewGameManager(logger, gameRepo, resultRepo, metrics, quartz.NewReal())

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameUseCase).Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameUseCase).Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Application context canceled, shutting down")
		return nil
	})

	return group.Wait()
}

// ShowResults - prints the tally and the most recent finished games.
func ShowResults(ctx context.Context, conf *config.Config, limit int, out io.Writer) error {
	sqliteStorage, err := openResults(ctx, conf)
	if err != nil {
		return err
	}
	defer sqliteStorage.Close()

	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)

	tally, err := resultRepo.Tally(ctx)
	if err != nil {
		return fmt.Errorf("could not count results: %w", err)
	}

	recent, err := resultRepo.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("could not list results: %w", err)
	}

	fmt.Fprintf(out, "X won: %d, O won: %d, drawn: %d\n\n", tally.WonX, tally.WonO, tally.Drawn)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tROUND\tOUTCOME\tWINNER\tMOVES\tFINISHED")
	for _, result := range recent {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\n",
			result.GameID, result.Round, result.Outcome, result.Winner, result.Moves, result.FinishedAt.Format(time.RFC3339))
	}

	return w.Flush()
}

func openResults(ctx context.Context, conf *config.Config) (*storage.SQLiteStorage, error) {
	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = sqliteStorage.Init(ctx); err != nil {
		_ = sqliteStorage.Close()
		return nil, fmt.Errorf("could not init sqlite storage: %w", err)
	}

	return sqliteStorage, nil
}
