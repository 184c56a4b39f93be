package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vmalakhov/banksettle/internal/config"
)

// dbexport dumps every table to a CSV file in the working directory, one
// file per table, for verification and reporting.

var tables = map[string]string{
	"users":      `SELECT user_id, username, password_hash, email, created_at FROM users ORDER BY user_id`,
	"accounts":   `SELECT account_id, user_id, balance, created_at FROM accounts ORDER BY account_id`,
	"transfers":  `SELECT transfer_id, from_account_id, to_account_id, amount, fee, status, reference, created_at, completed_at FROM transfers ORDER BY transfer_id`,
	"sessions":   `SELECT session_id, user_id, token, created_at, expires_at FROM sessions ORDER BY session_id`,
	"audit_logs": `SELECT log_id, operation, user_id, details, timestamp FROM audit_logs ORDER BY log_id`,
}

func main() {
	ctx := context.Background()
	cfg := config.New()

	pool, err := pgxpool.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("can't connect to database")
	}
	defer pool.Close()

	var g errgroup.Group
	for table, query := range tables {
		table, query := table, query
		g.Go(func() error {
			n, err := exportTable(ctx, pool, table, query)
			if err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			log.Info().Str("table", table).Int("rows", n).Msg("exported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	log.Info().Msg("export completed successfully")
}

func exportTable(ctx context.Context, pool *pgxpool.Pool, table, query string) (int, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	f, err := os.Create(table + ".csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	descriptions := rows.FieldDescriptions()
	header := make([]string, len(descriptions))
	for i, d := range descriptions {
		header[i] = string(d.Name)
	}
	if err := w.Write(header); err != nil {
		return 0, err
	}

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return count, err
		}
		record := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	w.Flush()
	return count, w.Error()
}
