package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/rocketscienceinc/tictactoe"

// Metrics counts game activity. Without a configured meter provider every call is a no-op.
type Metrics struct {
	gamesCreated  metric.Int64Counter
	movesPlayed   metric.Int64Counter
	movesRejected metric.Int64Counter
	gamesFinished metric.Int64Counter
}

// NewMetrics registers the counters on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	gamesCreated, err := meter.Int64Counter("tictactoe.games.created",
		metric.WithDescription("Games created"))
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}

	movesPlayed, err := meter.Int64Counter("tictactoe.moves.played",
		metric.WithDescription("Moves accepted by the rules engine"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}

	movesRejected, err := meter.Int64Counter("tictactoe.moves.rejected",
		metric.WithDescription("Moves rejected by the rules engine"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rejected moves counter: %w", err)
	}

	gamesFinished, err := meter.Int64Counter("tictactoe.games.finished",
		metric.WithDescription("Games that reached a win or a draw"))
	if err != nil {
		return nil, fmt.Errorf("failed to create finished games counter: %w", err)
	}

	return &Metrics{
		gamesCreated:  gamesCreated,
		movesPlayed:   movesPlayed,
		movesRejected: movesRejected,
		gamesFinished: gamesFinished,
	}, nil
}

func (that *Metrics) GameCreated(ctx context.Context) {
	that.gamesCreated.Add(ctx, 1)
}

func (that *Metrics) MovePlayed(ctx context.Context) {
	that.movesPlayed.Add(ctx, 1)
}

func (that *Metrics) MoveRejected(ctx context.Context, reason string) {
	that.movesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (that *Metrics) GameFinished(ctx context.Context, outcome, winner string) {
	that.gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("winner", winner),
	))
}
