package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeTerm deja el término de búsqueda en minúsculas y sin marcas
// diacríticas ("cámara" y "camara" encuentran lo mismo). La misma
// normalización se aplica al indexar el nombre en la columna de búsqueda.
func normalizeTerm(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
