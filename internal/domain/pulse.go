package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	QuestionCount  = 12
	QuestionMinVal = 1
	QuestionMaxVal = 5
)

// Section identifica una de las cuatro sub-escalas del pulse.
type Section int

const (
	S1 Section = iota
	S2
	S3
	S4
)

// SectionCount es el numero fijo de secciones.
const SectionCount = 4

// Sections lista las secciones en orden canonico.
var Sections = [SectionCount]Section{S1, S2, S3, S4}

// Suffix devuelve el sufijo usado en los nombres de campo ("s1".."s4").
func (s Section) Suffix() string {
	return fmt.Sprintf("s%d", int(s)+1)
}

func (s Section) String() string {
	return s.Suffix()
}

// QuestionInputs son las 12 respuestas Likert de un participante (q1..q12).
type QuestionInputs struct {
	Q [QuestionCount]int
}

// Get devuelve la respuesta n (1-based).
func (q QuestionInputs) Get(n int) int {
	return q.Q[n-1]
}

func (q QuestionInputs) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, QuestionCount)
	for i, v := range q.Q {
		out[fmt.Sprintf("q%d", i+1)] = v
	}
	return json.Marshal(out)
}

// SectionScores agrupa los dos puntajes compuestos de una seccion.
type SectionScores struct {
	Structural float64
	Clarity    float64
}

// ScoreOutputs contiene los 8 puntajes derivados de un QuestionInputs.
type ScoreOutputs struct {
	Sections [SectionCount]SectionScores
}

// Of devuelve los puntajes de la seccion indicada.
func (s ScoreOutputs) Of(section Section) SectionScores {
	return s.Sections[section]
}

// MarshalJSON aplana los puntajes como structural_score_s1..s4 y clarity_score_s1..s4.
func (s ScoreOutputs) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, SectionCount*2)
	for _, sec := range Sections {
		out["structural_score_"+sec.Suffix()] = s.Sections[sec].Structural
		out["clarity_score_"+sec.Suffix()] = s.Sections[sec].Clarity
	}
	return json.Marshal(out)
}

// PulseResponse es la respuesta persistida: rol, respuestas crudas, puntajes y comentario.
type PulseResponse struct {
	ID          string         `json:"id"`
	Role        string         `json:"role"`
	Questions   QuestionInputs `json:"questions"`
	Scores      ScoreOutputs   `json:"scores"`
	Comment     string         `json:"comment,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Row proyecta la respuesta a la forma que consume la agregacion.
func (r PulseResponse) Row() PulseRow {
	return PulseRow{
		SubmittedAt: r.SubmittedAt,
		Role:        r.Role,
		Scores:      r.Scores,
	}
}

// PulseRow es una respuesta historica tal como se lee del store.
type PulseRow struct {
	SubmittedAt time.Time
	Role        string
	Scores      ScoreOutputs
}
