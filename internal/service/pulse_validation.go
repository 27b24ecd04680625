package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"pilot-pulse/internal/domain"
)

const (
	maxRoleLength    = 64
	maxCommentLength = 2000
)

// ValidationError agrupa los errores por campo de una submission rechazada.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "pulse validation failed: " + strings.Join(e.Fields, "; ")
}

// questionFieldError es el mensaje canonico para un campo qN invalido.
func questionFieldError(n int) string {
	return fmt.Sprintf("q%d must be an integer between %d and %d", n, domain.QuestionMinVal, domain.QuestionMaxVal)
}

// ValidateQuestions valida q1..q12 desde un payload decodificado de JSON.
// Devuelve un mensaje por campo invalido; si hay alguno, el QuestionInputs no es usable.
func ValidateQuestions(raw map[string]any) (domain.QuestionInputs, []string) {
	var (
		out  domain.QuestionInputs
		errs []string
	)
	for n := 1; n <= domain.QuestionCount; n++ {
		v, ok := raw[fmt.Sprintf("q%d", n)]
		if !ok || v == nil {
			errs = append(errs, questionFieldError(n))
			continue
		}
		val, ok := likertValue(v)
		if !ok {
			errs = append(errs, questionFieldError(n))
			continue
		}
		out.Q[n-1] = val
	}
	if len(errs) > 0 {
		return domain.QuestionInputs{}, errs
	}
	return out, nil
}

// likertValue acepta solo numeros enteros en rango. Strings y booleanos se rechazan.
func likertValue(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < domain.QuestionMinVal || f > domain.QuestionMaxVal {
		return 0, false
	}
	return int(f), true
}

// normalizeRole limpia y valida el rol del participante.
func normalizeRole(role string) (string, string) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return "", "role is required"
	}
	if len(role) > maxRoleLength {
		return "", fmt.Sprintf("role must be at most %d characters", maxRoleLength)
	}
	return role, ""
}
