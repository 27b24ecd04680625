package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pilot-pulse/internal/domain"
	"pilot-pulse/internal/service"
)

const (
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// decodeRows lee un export JSON: un arreglo de filas con tipos sueltos.
func decodeRows(r io.Reader) ([]domain.PulseRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return service.ParsePulseRows(raw)
}

func writeJSON(w io.Writer, trends domain.PulseTrends) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trends); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func formatScore(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func trendColor(d domain.TrendDirection) string {
	switch d {
	case domain.TrendImproving:
		return colorGreen
	case domain.TrendDeclining:
		return colorRed
	case domain.TrendFlat:
		return colorYellow
	default:
		return colorReset
	}
}

// writeSummary imprime un resumen legible de la ultima ventana y sus senales.
func writeSummary(w io.Writer, trends domain.PulseTrends) error {
	var b strings.Builder
	sig := trends.Signals

	fmt.Fprintf(&b, "%s[Pulse]%s %d ventanas", colorCyan, colorReset, len(trends.Windows))
	if trends.TrendInferenceSuppressed {
		b.WriteString(" (inferencia de tendencia suprimida)")
	}
	b.WriteString("\n")

	if len(trends.Windows) == 0 {
		b.WriteString("Sin datos.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	latest := trends.Windows[len(trends.Windows)-1]
	fmt.Fprintf(&b, "Ventana %d desde %s, %d respuestas\n",
		latest.WindowIndex, latest.WindowStart.Format("2006-01-02"), latest.ResponseCount)
	if latest.AlignmentWarning != nil {
		fmt.Fprintf(&b, "%s! %s%s\n", colorYellow, *latest.AlignmentWarning, colorReset)
	}

	for i, sec := range domain.Sections {
		if i >= len(sig.Sections) {
			break
		}
		s := sig.Sections[i]
		agg := latest.Of(sec)
		fmt.Fprintf(&b, "  %s structural=%.2f %s%s%s clarity=%.2f %s%s%s alignment=%s\n",
			sec,
			agg.StructuralScore, trendColor(s.StructuralTrend), s.StructuralTrend, colorReset,
			agg.ClarityScore, trendColor(s.ClarityTrend), s.ClarityTrend, colorReset,
			formatScore(agg.AlignmentIndex),
		)
	}

	for _, f := range sig.Attention {
		fmt.Fprintf(&b, "%s[Atencion]%s %s %s: %s\n", colorRed, colorReset, f.Section, f.Kind, f.Detail)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
