package service

import (
	"testing"
	"time"

	"pilot-pulse/internal/domain"
)

func trendWindow(index int, structural, clarity float64, alignment *float64) domain.TrendWindow {
	w := domain.TrendWindow{
		WindowIndex: index,
		WindowStart: baseTime.Add(time.Duration(index-1) * TrendWindowLength),
	}
	for _, sec := range domain.Sections {
		w.Sections[sec] = domain.SectionAggregate{
			StructuralScore: structural,
			ClarityScore:    clarity,
			AlignmentIndex:  alignment,
		}
	}
	return w
}

func floatPtr(v float64) *float64 { return &v }

func countKind(flags []domain.AttentionFlag, kind string) int {
	n := 0
	for _, f := range flags {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func TestEvaluateSignals_Degradation(t *testing.T) {
	inputs := map[string][]domain.TrendWindow{
		"nil":        nil,
		"empty":      {},
		"one window": {trendWindow(1, 4, 4, nil)},
		"one weak":   {trendWindow(1, 1.5, 2, floatPtr(1.8))},
	}
	for name, windows := range inputs {
		t.Run(name, func(t *testing.T) {
			sig := EvaluateSignals(windows)
			if !sig.InsufficientData || !sig.TrendInferenceSuppressed {
				t.Fatalf("expected insufficient data and suppression, got %+v", sig)
			}
			if len(sig.Sections) != domain.SectionCount {
				t.Fatalf("expected %d sections, got %d", domain.SectionCount, len(sig.Sections))
			}
			for _, s := range sig.Sections {
				if s.StructuralTrend != domain.TrendInsufficientData || s.ClarityTrend != domain.TrendInsufficientData {
					t.Fatalf("expected insufficient_data for %s, got %+v", s.Section, s)
				}
				if s.StructuralDelta != nil || s.ClarityDelta != nil {
					t.Fatalf("expected no deltas for %s", s.Section)
				}
			}
			if sig.Attention == nil || len(sig.Attention) != 0 {
				t.Fatalf("expected empty attention list, got %+v", sig.Attention)
			}
		})
	}
}

func TestEvaluateSignals_Directions(t *testing.T) {
	windows := []domain.TrendWindow{
		trendWindow(1, 3, 3, nil),
		trendWindow(2, 3, 3, nil),
		trendWindow(3, 3, 3, nil),
	}
	windows[2].Sections[domain.S1].StructuralScore = 4
	windows[2].Sections[domain.S2].StructuralScore = 2
	windows[2].Sections[domain.S3].StructuralScore = 3.03
	windows[2].Sections[domain.S4].ClarityScore = 3.5

	sig := EvaluateSignals(windows)
	if sig.InsufficientData || sig.TrendInferenceSuppressed {
		t.Fatalf("expected usable signals, got %+v", sig)
	}
	if sig.LatestWindowIndex != 3 {
		t.Fatalf("expected latest window 3, got %d", sig.LatestWindowIndex)
	}

	want := map[string][2]domain.TrendDirection{
		"s1": {domain.TrendImproving, domain.TrendFlat},
		"s2": {domain.TrendDeclining, domain.TrendFlat},
		"s3": {domain.TrendFlat, domain.TrendFlat},
		"s4": {domain.TrendFlat, domain.TrendImproving},
	}
	for _, s := range sig.Sections {
		w := want[s.Section]
		if s.StructuralTrend != w[0] || s.ClarityTrend != w[1] {
			t.Fatalf("section %s: expected %v, got %s/%s", s.Section, w, s.StructuralTrend, s.ClarityTrend)
		}
	}
	if got := countKind(sig.Attention, domain.AttentionDeclining); got != 1 {
		t.Fatalf("expected 1 declining flag, got %d (%+v)", got, sig.Attention)
	}
	if got := countKind(sig.Attention, domain.AttentionLowScore); got != 1 {
		t.Fatalf("expected 1 low score flag for s2, got %d (%+v)", got, sig.Attention)
	}
}

func TestEvaluateSignals_TwoWindowsSuppressDecliningFlags(t *testing.T) {
	sig := EvaluateSignals([]domain.TrendWindow{
		trendWindow(1, 4, 4, nil),
		trendWindow(2, 3, 3, nil),
	})
	if sig.InsufficientData {
		t.Fatalf("two windows should allow direction")
	}
	if !sig.TrendInferenceSuppressed {
		t.Fatalf("two windows should still be suppressed")
	}
	for _, s := range sig.Sections {
		if s.StructuralTrend != domain.TrendDeclining {
			t.Fatalf("expected declining for %s, got %s", s.Section, s.StructuralTrend)
		}
	}
	if got := countKind(sig.Attention, domain.AttentionDeclining); got != 0 {
		t.Fatalf("expected no declining flags while suppressed, got %d", got)
	}
}

func TestEvaluateSignals_LowAlignment(t *testing.T) {
	sig := EvaluateSignals([]domain.TrendWindow{
		trendWindow(1, 4, 4, floatPtr(0.2)),
		trendWindow(2, 4, 4, floatPtr(1.5)),
		trendWindow(3, 4, 4, floatPtr(2.0)),
	})
	if got := countKind(sig.Attention, domain.AttentionLowAlignment); got != domain.SectionCount {
		t.Fatalf("expected low alignment on every section, got %d", got)
	}
	for _, s := range sig.Sections {
		if s.AlignmentIndex == nil || *s.AlignmentIndex != 2.0 {
			t.Fatalf("expected latest alignment index, got %v", s.AlignmentIndex)
		}
	}
}

func TestEvaluateSignals_DoesNotMutateInput(t *testing.T) {
	windows := []domain.TrendWindow{
		trendWindow(1, 4, 4, nil),
		trendWindow(2, 2, 2, nil),
	}
	before := windows[1].Of(domain.S1)
	_ = EvaluateSignals(windows)
	if windows[1].Of(domain.S1) != before {
		t.Fatalf("input mutated")
	}
}

func TestBuildTrends_EndToEnd(t *testing.T) {
	rows := make([]domain.PulseRow, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, pulseRow(baseTime.Add(time.Duration(i)*30*day), "SME", 3))
	}
	trends := BuildTrends(rows)
	if len(trends.Windows) != 5 || trends.TrendInferenceSuppressed {
		t.Fatalf("unexpected trends: windows=%d suppressed=%v", len(trends.Windows), trends.TrendInferenceSuppressed)
	}
	if trends.Signals.TrendInferenceSuppressed != trends.TrendInferenceSuppressed {
		t.Fatalf("signals should mirror suppression")
	}
	for _, s := range trends.Signals.Sections {
		if s.StructuralTrend != domain.TrendFlat {
			t.Fatalf("expected flat trend, got %s", s.StructuralTrend)
		}
	}
}
