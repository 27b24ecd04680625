package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pilot-pulse/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

const pulseSchema = `
CREATE TABLE IF NOT EXISTS pulse_responses (
	seq BIGSERIAL UNIQUE,
	id UUID PRIMARY KEY,
	role TEXT NOT NULL,
	q1 SMALLINT NOT NULL CHECK (q1 BETWEEN 1 AND 5),
	q2 SMALLINT NOT NULL CHECK (q2 BETWEEN 1 AND 5),
	q3 SMALLINT NOT NULL CHECK (q3 BETWEEN 1 AND 5),
	q4 SMALLINT NOT NULL CHECK (q4 BETWEEN 1 AND 5),
	q5 SMALLINT NOT NULL CHECK (q5 BETWEEN 1 AND 5),
	q6 SMALLINT NOT NULL CHECK (q6 BETWEEN 1 AND 5),
	q7 SMALLINT NOT NULL CHECK (q7 BETWEEN 1 AND 5),
	q8 SMALLINT NOT NULL CHECK (q8 BETWEEN 1 AND 5),
	q9 SMALLINT NOT NULL CHECK (q9 BETWEEN 1 AND 5),
	q10 SMALLINT NOT NULL CHECK (q10 BETWEEN 1 AND 5),
	q11 SMALLINT NOT NULL CHECK (q11 BETWEEN 1 AND 5),
	q12 SMALLINT NOT NULL CHECK (q12 BETWEEN 1 AND 5),
	structural_score_s1 DOUBLE PRECISION NOT NULL,
	structural_score_s2 DOUBLE PRECISION NOT NULL,
	structural_score_s3 DOUBLE PRECISION NOT NULL,
	structural_score_s4 DOUBLE PRECISION NOT NULL,
	clarity_score_s1 DOUBLE PRECISION NOT NULL,
	clarity_score_s2 DOUBLE PRECISION NOT NULL,
	clarity_score_s3 DOUBLE PRECISION NOT NULL,
	clarity_score_s4 DOUBLE PRECISION NOT NULL,
	comment TEXT,
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS pulse_responses_submitted_at_idx ON pulse_responses (submitted_at);
`

// EnsureSchema crea la tabla del pulse si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, pulseSchema)
	return err
}
