package service

import (
	"fmt"

	"pilot-pulse/internal/domain"
)

const (
	// flatTolerance absorbe el ruido de redondeo al comparar promedios.
	flatTolerance = 0.05
	// lowScoreThreshold marca secciones por debajo del punto medio de la escala Likert.
	lowScoreThreshold = 2.5
	// lowAlignmentThreshold marca dispersion alta entre roles (desviacion >= 1 punto).
	lowAlignmentThreshold = 1.0
)

// EvaluateSignals deriva tendencias y alertas a partir de las ventanas ordenadas.
// Con menos de dos ventanas no hay direccion posible: todo queda como insufficient_data
// y no se emiten alertas.
func EvaluateSignals(windows []domain.TrendWindow) domain.PulseSignals {
	signals := domain.PulseSignals{
		InsufficientData:         len(windows) < 2,
		TrendInferenceSuppressed: len(windows) < MinWindowsForTrend,
		Sections:                 make([]domain.SectionSignal, 0, domain.SectionCount),
		Attention:                []domain.AttentionFlag{},
	}

	if len(windows) == 0 {
		for _, sec := range domain.Sections {
			signals.Sections = append(signals.Sections, insufficientSignal(sec))
		}
		return signals
	}

	latest := windows[len(windows)-1]
	signals.LatestWindowIndex = latest.WindowIndex

	for _, sec := range domain.Sections {
		cur := latest.Of(sec)
		sig := insufficientSignal(sec)
		sig.AlignmentIndex = cur.AlignmentIndex

		if len(windows) >= 2 {
			prev := windows[len(windows)-2].Of(sec)
			sDelta := cur.StructuralScore - prev.StructuralScore
			cDelta := cur.ClarityScore - prev.ClarityScore
			sig.StructuralTrend = direction(sDelta)
			sig.ClarityTrend = direction(cDelta)
			sig.StructuralDelta = &sDelta
			sig.ClarityDelta = &cDelta
		}
		signals.Sections = append(signals.Sections, sig)
		if signals.InsufficientData {
			continue
		}
		signals.Attention = append(signals.Attention, attentionFor(sec, cur, sig, signals.TrendInferenceSuppressed)...)
	}
	return signals
}

func insufficientSignal(sec domain.Section) domain.SectionSignal {
	return domain.SectionSignal{
		Section:         sec.Suffix(),
		StructuralTrend: domain.TrendInsufficientData,
		ClarityTrend:    domain.TrendInsufficientData,
	}
}

func direction(delta float64) domain.TrendDirection {
	switch {
	case delta > flatTolerance:
		return domain.TrendImproving
	case delta < -flatTolerance:
		return domain.TrendDeclining
	default:
		return domain.TrendFlat
	}
}

// attentionFor genera alertas sobre la ultima ventana. Las alertas de declive solo
// se emiten cuando hay ventanas suficientes para inferir tendencia.
func attentionFor(sec domain.Section, cur domain.SectionAggregate, sig domain.SectionSignal, suppressed bool) []domain.AttentionFlag {
	var flags []domain.AttentionFlag
	name := sec.Suffix()

	if cur.StructuralScore < lowScoreThreshold {
		flags = append(flags, domain.AttentionFlag{
			Section: name,
			Kind:    domain.AttentionLowScore,
			Detail:  fmt.Sprintf("structural score %.2f below %.1f", cur.StructuralScore, lowScoreThreshold),
			Value:   cur.StructuralScore,
		})
	}
	if cur.ClarityScore < lowScoreThreshold {
		flags = append(flags, domain.AttentionFlag{
			Section: name,
			Kind:    domain.AttentionLowScore,
			Detail:  fmt.Sprintf("clarity score %.2f below %.1f", cur.ClarityScore, lowScoreThreshold),
			Value:   cur.ClarityScore,
		})
	}
	if cur.AlignmentIndex != nil && *cur.AlignmentIndex >= lowAlignmentThreshold {
		flags = append(flags, domain.AttentionFlag{
			Section: name,
			Kind:    domain.AttentionLowAlignment,
			Detail:  fmt.Sprintf("cross-role dispersion %.2f at or above %.1f", *cur.AlignmentIndex, lowAlignmentThreshold),
			Value:   *cur.AlignmentIndex,
		})
	}
	if suppressed {
		return flags
	}
	if sig.StructuralTrend == domain.TrendDeclining && sig.StructuralDelta != nil {
		flags = append(flags, domain.AttentionFlag{
			Section: name,
			Kind:    domain.AttentionDeclining,
			Detail:  "structural score declined since previous window",
			Value:   *sig.StructuralDelta,
		})
	}
	if sig.ClarityTrend == domain.TrendDeclining && sig.ClarityDelta != nil {
		flags = append(flags, domain.AttentionFlag{
			Section: name,
			Kind:    domain.AttentionDeclining,
			Detail:  "clarity score declined since previous window",
			Value:   *sig.ClarityDelta,
		})
	}
	return flags
}
