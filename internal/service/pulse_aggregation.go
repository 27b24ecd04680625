package service

import (
	"math"
	"sort"
	"time"

	"pilot-pulse/internal/domain"
)

const (
	// TrendWindowLength es el largo fijo de cada ventana de agregacion.
	TrendWindowLength = 14 * 24 * time.Hour
	// MinWindowsForTrend es el minimo de ventanas para inferir tendencias.
	MinWindowsForTrend = 3
	// AlignmentWarningInsufficientRoles se asigna cuando una ventana tiene menos de dos roles.
	AlignmentWarningInsufficientRoles = "Insufficient role diversity in this window to compute alignment (need at least 2 distinct roles)"
)

// AggregationResult es la salida de AggregateWindows.
type AggregationResult struct {
	Windows                  []domain.TrendWindow
	TrendInferenceSuppressed bool
}

// AggregateWindows agrupa las filas en ventanas de 14 dias ancladas en la fila mas
// antigua, promedia los puntajes por seccion y calcula el alignment index entre roles.
// No modifica rows.
func AggregateWindows(rows []domain.PulseRow) AggregationResult {
	if len(rows) == 0 {
		return AggregationResult{Windows: []domain.TrendWindow{}, TrendInferenceSuppressed: true}
	}

	sorted := make([]domain.PulseRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	anchor := sorted[0].SubmittedAt
	var (
		buckets = make(map[int64][]domain.PulseRow)
		order   []int64
	)
	for _, row := range sorted {
		idx := bucketIndex(anchor, row.SubmittedAt)
		if _, ok := buckets[idx]; !ok {
			order = append(order, idx)
		}
		buckets[idx] = append(buckets[idx], row)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	windows := make([]domain.TrendWindow, 0, len(order))
	for i, idx := range order {
		start := anchor.Add(time.Duration(idx) * TrendWindowLength)
		windows = append(windows, buildWindow(i+1, start, buckets[idx]))
	}

	return AggregationResult{
		Windows:                  windows,
		TrendInferenceSuppressed: len(windows) < MinWindowsForTrend,
	}
}

// bucketIndex calcula floor((t - anchor) / TrendWindowLength). Nunca es negativo
// porque el ancla es el minimo.
func bucketIndex(anchor, t time.Time) int64 {
	elapsed := t.Sub(anchor)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / TrendWindowLength)
}

func buildWindow(index int, start time.Time, rows []domain.PulseRow) domain.TrendWindow {
	w := domain.TrendWindow{
		WindowIndex:   index,
		WindowStart:   start,
		ResponseCount: len(rows),
	}

	roles := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		roles[r.Role] = struct{}{}
	}
	diverse := len(roles) >= 2

	for _, sec := range domain.Sections {
		structural := make([]float64, len(rows))
		clarity := make([]float64, len(rows))
		for i, r := range rows {
			scores := r.Scores.Of(sec)
			structural[i] = scores.Structural
			clarity[i] = scores.Clarity
		}

		agg := domain.SectionAggregate{
			StructuralScore: mean(structural),
			ClarityScore:    mean(clarity),
		}
		if diverse {
			alignment := populationStdDev(structural)
			agg.AlignmentIndex = &alignment
		}
		w.Sections[sec] = agg
	}

	if !diverse {
		warning := AlignmentWarningInsufficientRoles
		w.AlignmentWarning = &warning
	}
	return w
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev devuelve 0 para menos de dos valores.
func populationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sq := 0.0
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
