package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"pilot-pulse/internal/domain"
)

var ErrPulseRowInvalid = errors.New("pulse row invalid")

// ParsePulseRow convierte una fila con tipos sueltos (exports JSON, stores que devuelven
// NUMERIC como texto) a un PulseRow tipado. Es el unico punto donde se coercionan
// valores "string o numero"; el resto del pipeline trabaja con float64.
func ParsePulseRow(raw map[string]any) (domain.PulseRow, error) {
	var row domain.PulseRow

	submittedAt, err := parseTimestamp(raw["submitted_at"])
	if err != nil {
		return domain.PulseRow{}, fmt.Errorf("%w: submitted_at: %v", ErrPulseRowInvalid, err)
	}
	row.SubmittedAt = submittedAt

	role, err := cast.ToStringE(raw["role"])
	if err != nil {
		return domain.PulseRow{}, fmt.Errorf("%w: role: %v", ErrPulseRowInvalid, err)
	}
	row.Role = strings.TrimSpace(role)

	for _, sec := range domain.Sections {
		structural, err := parseScore(raw, "structural_score_"+sec.Suffix())
		if err != nil {
			return domain.PulseRow{}, err
		}
		clarity, err := parseScore(raw, "clarity_score_"+sec.Suffix())
		if err != nil {
			return domain.PulseRow{}, err
		}
		row.Scores.Sections[sec] = domain.SectionScores{Structural: structural, Clarity: clarity}
	}
	return row, nil
}

// ParsePulseRows parsea todas las filas o falla en la primera invalida.
func ParsePulseRows(raw []map[string]any) ([]domain.PulseRow, error) {
	rows := make([]domain.PulseRow, 0, len(raw))
	for i, r := range raw {
		row, err := ParsePulseRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseScore(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: %s missing", ErrPulseRowInvalid, key)
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPulseRowInvalid, key, err)
	}
	return f, nil
}

// parseTimestamp acepta time.Time, strings de fecha y epoch en milisegundos.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, errors.New("missing")
	case time.Time:
		return t.UTC(), nil
	case string:
		parsed, err := cast.ToTimeE(strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	default:
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
}
