package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalizar pasa a minúsculas y quita diacríticos para búsquedas que no
// distingan acentos ("Café" → "cafe"). Si la transformación falla devuelve el
// texto en minúsculas sin más.
func Normalizar(s string) string {
	out, _, err := transform.String(quitarDiacriticos, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
