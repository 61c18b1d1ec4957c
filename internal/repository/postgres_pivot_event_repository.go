package repository

import (
	"context"
	"time"

	"chan-engine/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPivotEventRepository stores materialized third-buy/third-sell
// events in Postgres, one row per detected event.
type PostgresPivotEventRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPivotEventRepository(pool *pgxpool.Pool) *PostgresPivotEventRepository {
	return &PostgresPivotEventRepository{pool: pool}
}

func (r *PostgresPivotEventRepository) SaveEvents(events []domain.PivotEvent) error {
	for _, e := range events {
		_, err := r.pool.Exec(context.Background(), `
			insert into pivot_events(symbol, freq, kind, occurred_at, value, detected_at)
			values ($1,$2,$3,$4,$5,$6)
		`, e.Symbol, e.Freq, e.Kind, e.Dt, e.Value, e.DetectedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresPivotEventRepository) GetEvents(symbol string) ([]domain.PivotEvent, error) {
	rows, err := r.pool.Query(context.Background(), `
		select symbol, freq, kind, occurred_at, value, detected_at
		from pivot_events
		where symbol = $1
		order by occurred_at desc
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.PivotEvent, 0)
	for rows.Next() {
		var e domain.PivotEvent
		var dt, detectedAt time.Time
		if err := rows.Scan(&e.Symbol, &e.Freq, &e.Kind, &dt, &e.Value, &detectedAt); err != nil {
			return nil, err
		}
		e.Dt = dt
		e.DetectedAt = detectedAt
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ domain.PivotEventRepository = (*PostgresPivotEventRepository)(nil)
