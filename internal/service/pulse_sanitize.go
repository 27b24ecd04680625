package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// commentPolicy elimina todas las etiquetas HTML y conserva solo el texto.
var commentPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses acota el desescapado de entidades anidadas (&amp;lt; ...).
const maxSanitizePasses = 8

// SanitizeComment limpia el comentario libre antes de persistirlo. Sanitiza y
// desescapa hasta llegar a un punto fijo: el texto resultante no contiene etiquetas
// aunque vinieran codificadas como entidades.
func SanitizeComment(comment string) string {
	current := comment
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(commentPolicy.Sanitize(current))
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	// Sin punto fijo se guarda la salida escapada de bluemonday.
	return strings.TrimSpace(commentPolicy.Sanitize(current))
}
