package service

import (
	"errors"
	"fmt"

	"pilot-pulse/internal/domain"
)

var ErrQuestionOutOfRange = errors.New("question value out of range")

// sectionRubric indica que preguntas (1-based) alimentan cada puntaje de una seccion.
type sectionRubric struct {
	Structural []int
	Clarity    []int
}

// scoringRubric es la tabla canonica de puntuacion. Cambiarla invalida los puntajes
// historicos, asi que cualquier cambio requiere recalcular las filas guardadas.
// Cada seccion usa tres preguntas consecutivas; la del medio alimenta ambos puntajes.
var scoringRubric = [domain.SectionCount]sectionRubric{
	domain.S1: {Structural: []int{1, 2}, Clarity: []int{2, 3}},
	domain.S2: {Structural: []int{4, 5}, Clarity: []int{5, 6}},
	domain.S3: {Structural: []int{7, 8}, Clarity: []int{8, 9}},
	domain.S4: {Structural: []int{10, 11}, Clarity: []int{11, 12}},
}

// ComputeScores calcula los 8 puntajes compuestos. Es determinista y sin efectos;
// rechaza valores fuera de [1,5] en lugar de corregirlos.
func ComputeScores(questions domain.QuestionInputs) (domain.ScoreOutputs, error) {
	for i, v := range questions.Q {
		if v < domain.QuestionMinVal || v > domain.QuestionMaxVal {
			return domain.ScoreOutputs{}, fmt.Errorf("%w: q%d=%d", ErrQuestionOutOfRange, i+1, v)
		}
	}

	var out domain.ScoreOutputs
	for _, sec := range domain.Sections {
		rubric := scoringRubric[sec]
		out.Sections[sec] = domain.SectionScores{
			Structural: meanOfQuestions(questions, rubric.Structural),
			Clarity:    meanOfQuestions(questions, rubric.Clarity),
		}
	}
	return out, nil
}

func meanOfQuestions(questions domain.QuestionInputs, idx []int) float64 {
	sum := 0
	for _, n := range idx {
		sum += questions.Get(n)
	}
	return float64(sum) / float64(len(idx))
}
