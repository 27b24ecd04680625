package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"pilot-pulse/internal/domain"
)

// PulseRepository define el contrato de persistencia para respuestas del pulse.
// ListAll devuelve las filas en orden de insercion.
type PulseRepository interface {
	Insert(ctx context.Context, response domain.PulseResponse) error
	ListAll(ctx context.Context) ([]domain.PulseRow, error)
}

// PgPulseRepository implementa PulseRepository usando pgxpool.
type PgPulseRepository struct {
	pool *pgxpool.Pool
}

func NewPgPulseRepository(pool *pgxpool.Pool) *PgPulseRepository {
	return &PgPulseRepository{pool: pool}
}

var pulseScoreColumns = func() []string {
	cols := make([]string, 0, domain.SectionCount*2)
	for _, sec := range domain.Sections {
		cols = append(cols, "structural_score_"+sec.Suffix())
	}
	for _, sec := range domain.Sections {
		cols = append(cols, "clarity_score_"+sec.Suffix())
	}
	return cols
}()

var pulseInsertQuery = func() string {
	cols := []string{"id", "role"}
	for n := 1; n <= domain.QuestionCount; n++ {
		cols = append(cols, fmt.Sprintf("q%d", n))
	}
	cols = append(cols, pulseScoreColumns...)
	cols = append(cols, "comment", "submitted_at")

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO pulse_responses (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}()

var pulseListQuery = fmt.Sprintf(
	"SELECT submitted_at, role, %s FROM pulse_responses ORDER BY seq ASC",
	strings.Join(pulseScoreColumns, ", "),
)

func (r *PgPulseRepository) Insert(ctx context.Context, response domain.PulseResponse) error {
	args := make([]any, 0, 2+domain.QuestionCount+domain.SectionCount*2+2)
	args = append(args, response.ID, response.Role)
	for _, q := range response.Questions.Q {
		args = append(args, q)
	}
	for _, sec := range domain.Sections {
		args = append(args, response.Scores.Of(sec).Structural)
	}
	for _, sec := range domain.Sections {
		args = append(args, response.Scores.Of(sec).Clarity)
	}

	var comment interface{}
	if response.Comment != "" {
		comment = response.Comment
	}
	args = append(args, comment, response.SubmittedAt)

	_, err := r.pool.Exec(ctx, pulseInsertQuery, args...)
	return err
}

func (r *PgPulseRepository) ListAll(ctx context.Context) ([]domain.PulseRow, error) {
	rows, err := r.pool.Query(ctx, pulseListQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PulseRow
	for rows.Next() {
		var (
			row        domain.PulseRow
			structural [domain.SectionCount]float64
			clarity    [domain.SectionCount]float64
		)
		err = rows.Scan(
			&row.SubmittedAt,
			&row.Role,
			&structural[0], &structural[1], &structural[2], &structural[3],
			&clarity[0], &clarity[1], &clarity[2], &clarity[3],
		)
		if err != nil {
			return nil, err
		}
		for _, sec := range domain.Sections {
			row.Scores.Sections[sec] = domain.SectionScores{
				Structural: structural[sec],
				Clarity:    clarity[sec],
			}
		}
		row.SubmittedAt = row.SubmittedAt.UTC()
		out = append(out, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
