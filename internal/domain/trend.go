package domain

import (
	"encoding/json"
	"time"
)

// SectionAggregate son los promedios de una seccion dentro de una ventana.
// AlignmentIndex es nil cuando la ventana no tiene al menos dos roles distintos.
type SectionAggregate struct {
	StructuralScore float64
	ClarityScore    float64
	AlignmentIndex  *float64
}

// TrendWindow es el agregado de un bucket de 14 dias.
type TrendWindow struct {
	WindowIndex      int
	WindowStart      time.Time
	ResponseCount    int
	Sections         [SectionCount]SectionAggregate
	AlignmentWarning *string
}

// Of devuelve el agregado de la seccion indicada.
func (w TrendWindow) Of(section Section) SectionAggregate {
	return w.Sections[section]
}

// MarshalJSON aplana las secciones (structuralScore_s1, alignmentIndex_s1, ...).
func (w TrendWindow) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"windowIndex":   w.WindowIndex,
		"windowStart":   w.WindowStart.UTC().Format(time.RFC3339Nano),
		"responseCount": w.ResponseCount,
	}
	for _, sec := range Sections {
		agg := w.Sections[sec]
		out["structuralScore_"+sec.Suffix()] = agg.StructuralScore
		out["clarityScore_"+sec.Suffix()] = agg.ClarityScore
		out["alignmentIndex_"+sec.Suffix()] = agg.AlignmentIndex
	}
	if w.AlignmentWarning != nil {
		out["alignmentWarning"] = *w.AlignmentWarning
	}
	return json.Marshal(out)
}

// TrendDirection describe la direccion de una seccion entre las dos ultimas ventanas.
type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendFlat             TrendDirection = "flat"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// SectionSignal resume la tendencia de una seccion.
type SectionSignal struct {
	Section         string         `json:"section"`
	StructuralTrend TrendDirection `json:"structuralTrend"`
	ClarityTrend    TrendDirection `json:"clarityTrend"`
	StructuralDelta *float64       `json:"structuralDelta,omitempty"`
	ClarityDelta    *float64       `json:"clarityDelta,omitempty"`
	AlignmentIndex  *float64       `json:"alignmentIndex,omitempty"`
}

const (
	AttentionLowScore     = "low_score"
	AttentionLowAlignment = "low_alignment"
	AttentionDeclining    = "declining"
)

// AttentionFlag marca una seccion que merece revision.
type AttentionFlag struct {
	Section string  `json:"section"`
	Kind    string  `json:"kind"`
	Detail  string  `json:"detail"`
	Value   float64 `json:"value"`
}

// PulseSignals es la salida de la evaluacion de senales.
type PulseSignals struct {
	InsufficientData         bool            `json:"insufficientData"`
	TrendInferenceSuppressed bool            `json:"trendInferenceSuppressed"`
	LatestWindowIndex        int             `json:"latestWindowIndex"`
	Sections                 []SectionSignal `json:"sections"`
	Attention                []AttentionFlag `json:"attention"`
}

// PulseTrends es la respuesta completa que consume el dashboard.
type PulseTrends struct {
	Windows                  []TrendWindow `json:"windows"`
	TrendInferenceSuppressed bool          `json:"trendInferenceSuppressed"`
	Signals                  PulseSignals  `json:"signals"`
}

// UnmarshalJSON es el inverso de MarshalJSON; lo usa el cache de tendencias.
func (w *TrendWindow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out TrendWindow
	if err := decodeField(raw, "windowIndex", &out.WindowIndex); err != nil {
		return err
	}
	if err := decodeField(raw, "windowStart", &out.WindowStart); err != nil {
		return err
	}
	if err := decodeField(raw, "responseCount", &out.ResponseCount); err != nil {
		return err
	}
	if err := decodeField(raw, "alignmentWarning", &out.AlignmentWarning); err != nil {
		return err
	}
	for _, sec := range Sections {
		agg := &out.Sections[sec]
		if err := decodeField(raw, "structuralScore_"+sec.Suffix(), &agg.StructuralScore); err != nil {
			return err
		}
		if err := decodeField(raw, "clarityScore_"+sec.Suffix(), &agg.ClarityScore); err != nil {
			return err
		}
		if err := decodeField(raw, "alignmentIndex_"+sec.Suffix(), &agg.AlignmentIndex); err != nil {
			return err
		}
	}
	*w = out
	return nil
}

func decodeField(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(v, dst)
}
