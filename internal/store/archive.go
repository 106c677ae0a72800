package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// PostgresArchive persists closed sessions and embedded critical
// moments. It is optional: the engine runs fully without it.
type PostgresArchive struct {
	db *pgxpool.Pool
}

func NewPostgresArchive(db *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{db: db}
}

// Migrate creates the archive tables. Safe to run on every boot.
func (a *PostgresArchive) Migrate(ctx context.Context) error {
	_, err := a.db.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			case_id TEXT NOT NULL,
			turns INT NOT NULL,
			phase TEXT NOT NULL,
			outcome TEXT NOT NULL,
			final_load DOUBLE PRECISION NOT NULL,
			collapsed_pillars INT NOT NULL,
			transcript JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS critical_moments (
			id BIGSERIAL PRIMARY KEY,
			session_id UUID NOT NULL,
			turn INT NOT NULL,
			description TEXT NOT NULL,
			embedding vector(1536),
			occurred_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate archive schema: %w", err)
	}
	return nil
}

func (a *PostgresArchive) ArchiveSession(ctx context.Context, s *domain.Session, entries []domain.LedgerEntry) error {
	transcript, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = a.db.Exec(ctx,
		`INSERT INTO sessions (id, case_id, turns, phase, outcome, final_load, collapsed_pillars, transcript, created_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   turns = EXCLUDED.turns,
		   phase = EXCLUDED.phase,
		   outcome = EXCLUDED.outcome,
		   final_load = EXCLUDED.final_load,
		   collapsed_pillars = EXCLUDED.collapsed_pillars,
		   transcript = EXCLUDED.transcript,
		   ended_at = EXCLUDED.ended_at`,
		s.ID, s.CaseID, s.Turn, s.Phase, s.Outcome,
		s.Mind.Cognitive.Load, s.Mind.Web.CollapsedCount(),
		transcript, s.CreatedAt, s.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	return nil
}

func (a *PostgresArchive) ArchiveMoment(ctx context.Context, m domain.CriticalMoment, embedding []float32) error {
	var vec *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vec = &v
	}

	_, err := a.db.Exec(ctx,
		`INSERT INTO critical_moments (session_id, turn, description, embedding, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.SessionID, m.Turn, m.Description, vec, m.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("archive moment: %w", err)
	}
	return nil
}

// SimilarMoments finds past moments nearest to the embedding, most
// similar first.
func (a *PostgresArchive) SimilarMoments(ctx context.Context, embedding []float32, limit int) ([]domain.CriticalMoment, error) {
	if limit <= 0 {
		limit = 5
	}
	vec := pgvector.NewVector(embedding)

	rows, err := a.db.Query(ctx,
		`SELECT session_id, turn, description, occurred_at
		 FROM critical_moments
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similar moments query: %w", err)
	}
	defer rows.Close()

	var moments []domain.CriticalMoment
	for rows.Next() {
		var m domain.CriticalMoment
		if err := rows.Scan(&m.SessionID, &m.Turn, &m.Description, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan moment row: %w", err)
		}
		moments = append(moments, m)
	}
	return moments, rows.Err()
}
