package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	fold  = cases.Fold()
)

// CanonicalBinCode código de bin tal como se guarda: sin espacios extremos y en mayúsculas.
func CanonicalBinCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}

// FoldName forma comparable sin distinguir mayúsculas (nombres de ubicación, producto, SKU).
func FoldName(s string) string {
	return fold.String(strings.TrimSpace(s))
}

// CleanHeader normaliza una cabecera CSV: quita BOM y espacios, pasa a minúsculas.
func CleanHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

var unitSynonyms = map[string]string{
	"ea": "each", "each": "each", "unit": "each", "units": "each", "piece": "each", "pieces": "each",
	"box": "box", "boxes": "box",
	"bag": "bag", "bags": "bag",
	"crate": "crate", "crates": "crate",
	"case": "case", "cases": "case",
	"bunch": "bunch", "bunches": "bunch",
	"pack": "pack", "packs": "pack",
}

// NormalizeUnit unidad canónica ("Crates" -> "crate"). Vacío -> "each";
// valores desconocidos se devuelven en minúsculas.
func NormalizeUnit(u string) string {
	raw := strings.ToLower(strings.TrimSpace(u))
	if raw == "" {
		return "each"
	}
	if canon, ok := unitSynonyms[raw]; ok {
		return canon
	}
	return raw
}
