package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Result, error)
	Tally(ctx context.Context) (*entity.Tally, error)
}

type dbResult struct {
	conn *sqlx.DB
}

func NewResultRepository(conn *sqlx.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

// resultRow keeps finished_at as unix milliseconds so ordering does not depend on the driver's time format.
type resultRow struct {
	GameID     string `db:"game_id"`
	Round      int    `db:"round"`
	Outcome    string `db:"outcome"`
	Winner     string `db:"winner"`
	Moves      int    `db:"moves"`
	FinishedAt int64  `db:"finished_at"`
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	query := `INSERT INTO results (game_id, round, outcome, winner, moves, finished_at)
		VALUES (:game_id, :round, :outcome, :winner, :moves, :finished_at)
		ON CONFLICT (game_id, round) DO UPDATE SET
			outcome = excluded.outcome,
			winner = excluded.winner,
			moves = excluded.moves,
			finished_at = excluded.finished_at`

	row := resultRow{
		GameID:     result.GameID,
		Round:      result.Round,
		Outcome:    result.Outcome,
		Winner:     result.Winner,
		Moves:      result.Moves,
		FinishedAt: result.FinishedAt.UnixMilli(),
	}

	if _, err := that.conn.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *dbResult) ListRecent(ctx context.Context, limit int) ([]*entity.Result, error) {
	query := `SELECT game_id, round, outcome, winner, moves, finished_at
		FROM results ORDER BY finished_at DESC, game_id, round DESC LIMIT ?`

	var rows []resultRow
	if err := that.conn.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("can't list results: %w", err)
	}

	results := make([]*entity.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, &entity.Result{
			GameID:     row.GameID,
			Round:      row.Round,
			Outcome:    row.Outcome,
			Winner:     row.Winner,
			Moves:      row.Moves,
			FinishedAt: time.UnixMilli(row.FinishedAt).UTC(),
		})
	}

	return results, nil
}

func (that *dbResult) Tally(ctx context.Context) (*entity.Tally, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN outcome = 'won' AND winner = 'X' THEN 1 ELSE 0 END), 0) AS won_x,
		COALESCE(SUM(CASE WHEN outcome = 'won' AND winner = 'O' THEN 1 ELSE 0 END), 0) AS won_o,
		COALESCE(SUM(CASE WHEN outcome = 'drawn' THEN 1 ELSE 0 END), 0) AS drawn
		FROM results`

	var tally entity.Tally
	if err := that.conn.GetContext(ctx, &tally, query); err != nil {
		return nil, fmt.Errorf("can't count results: %w", err)
	}

	return &tally, nil
}
