package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists pivot_events (
			id bigserial primary key,
			symbol text not null,
			freq text not null,
			kind text not null,
			occurred_at timestamptz not null,
			value double precision not null,
			detected_at timestamptz not null default now()
		);`,
		`create index if not exists pivot_events_symbol_freq_idx on pivot_events(symbol, freq, occurred_at desc);`,
		`create index if not exists pivot_events_detected_at_idx on pivot_events(detected_at desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
