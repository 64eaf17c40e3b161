package internal

import (
	"context"
	"errors"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

/* ===================== CONNECT ===================== */

func MustDB(url string) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal(err)
	}
	cfg.MaxConns = 10

	var pool *pgxpool.Pool

	deadline := time.Now().Add(30 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				break
			}
			pool.Close()
			err = ctx.Err()
		}
		cancel()

		if time.Now().After(deadline) {
			log.Fatalf("failed to connect DB after retries: %v", err)
		}
		time.Sleep(1 * time.Second)
	}

	return pool
}

/* ===================== SCHEMA ===================== */

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		pass_hash  TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'participant',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id               SERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		start_date       TIMESTAMPTZ NOT NULL,
		end_date         TIMESTAMPTZ NOT NULL,
		max_participants INT,
		prize_pool       TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL,
		tracks           TEXT[] NOT NULL DEFAULT '{}',
		organizer_id     INT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS event_participants (
		event_id  INT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id   INT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_judges (
		event_id INT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id  INT NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id           SERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		team_members TEXT[] NOT NULL DEFAULT '{}',
		submitted_by INT NOT NULL,
		event_id     INT,
		github_url   TEXT NOT NULL DEFAULT '',
		demo_url     TEXT NOT NULL DEFAULT '',
		technologies TEXT[] NOT NULL DEFAULT '{}',
		track        TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (event_id, submitted_by)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id           SERIAL PRIMARY KEY,
		project_id   INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		judge_id     INT NOT NULL,
		event_id     INT,
		innovation   INT NOT NULL,
		technical    INT NOT NULL,
		feasibility  INT NOT NULL,
		presentation INT NOT NULL,
		impact       INT,
		overall      NUMERIC(3,1) NOT NULL,
		feedback     TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ,
		UNIQUE (project_id, judge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id          SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		leader_id   INT NOT NULL,
		event_id    INT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		team_id INT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id INT NOT NULL,
		PRIMARY KEY (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS team_invites (
		id         UUID PRIMARY KEY,
		team_id    INT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		email      TEXT NOT NULL,
		invited_by INT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS team_invites_pending_uniq
		ON team_invites (team_id, email) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS announcements (
		id         SERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		event_id   INT,
		priority   TEXT NOT NULL DEFAULT 'normal',
		audience   TEXT NOT NULL DEFAULT 'all',
		author_id  INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id          SERIAL PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		question    TEXT NOT NULL,
		asked_by    INT NOT NULL,
		event_id    INT,
		answer      TEXT,
		answered_by INT,
		answered_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id         SERIAL PRIMARY KEY,
		actor_id   INT,
		action     TEXT NOT NULL,
		details    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func Migrate(db *pgxpool.Pool) {
	ctx := context.Background()
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error,
// so handlers can tell a constraint-backed business conflict from an
// infrastructure failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* ===================== SQUIRREL HELPERS ===================== */

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func qExec(ctx context.Context, db *pgxpool.Pool, q sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return db.Exec(ctx, sql, args...)
}

func qQuery(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) (pgx.Rows, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return db.Query(ctx, sql, args...)
}

func qRow(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) pgx.Row {
	sql, args, _ := q.ToSql()
	return db.QueryRow(ctx, sql, args...)
}
